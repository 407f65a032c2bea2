package crud

import (
	"errors"

	"gorm.io/gorm"

	"goNetwork/domain"
	"goNetwork/errs"
)

// LikeService manages Likes.
// It implements the domain.LikeService interface.
type LikeService struct {
	likeValidator
}

// likeValidator runs validations on incoming Like data.
// On success, it passes the data on to likeGorm.
// Otherwise, it returns the error of the validation that has failed.
type likeValidator struct {
	likeGorm
}

// likeGorm runs CRUD operations on the database using incoming Like data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type likeGorm struct {
	db *gorm.DB
}

// NewLikeService returns an instance of LikeService.
func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{
		likeValidator{
			likeGorm{
				db: db,
			},
		},
	}
}

// Ensure the LikeService struct properly implements the domain.LikeService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.LikeService = &LikeService{}

// Create runs validations needed for creating new Like database records.
func (lv *likeValidator) Create(like *domain.Like) error {
	err := runLikeValFns(like,
		lv.userIdValid,
		lv.likedPostExists,
		lv.notAlreadyLiked)
	if err != nil {
		return err
	}
	return lv.likeGorm.Create(like)
}

// Delete runs validations needed for deleting existing Like database records.
// A post that is missing or has no likes at all is a single "nothing to
// unlike" condition. A post that has likes, just none from this user, is a
// distinct conflict.
func (lv *likeValidator) Delete(like *domain.Like) error {
	err := runLikeValFns(like,
		lv.postHasLikes,
		lv.likeExists)
	if err != nil {
		return err
	}
	return lv.likeGorm.Delete(like)
}

// runLikeValFns runs any number of functions of type likeValFn on the passed in Like object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runLikeValFns(like *domain.Like, fns ...likeValFn) error {
	for _, fn := range fns {
		if err := fn(like); err != nil {
			return err
		}
	}
	return nil
}

// A likeValFn is any function that takes in a pointer to a domain.Like object and returns an error.
type likeValFn func(like *domain.Like) error

// likedPostExists makes sure that the Post to be liked actually exists.
func (lv *likeValidator) likedPostExists(like *domain.Like) error {
	err := lv.db.First(&domain.Post{}, "id = ?", like.PostID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
		}
		return err
	}
	return nil
}

// likeExists makes sure that this user actually has a Like edge on the post.
func (lv *likeValidator) likeExists(like *domain.Like) error {
	var existing domain.Like
	err := lv.db.First(&existing, "user_id = ? AND post_id = ?", like.UserID, like.PostID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.Errorf(errs.ECONFLICT, "You have not liked this post.")
		}
		return err
	}
	return nil
}

// notAlreadyLiked makes sure that no edge exists yet for this pair. This
// check is advisory, the unique index on the pair is what actually
// guarantees it under concurrent requests.
func (lv *likeValidator) notAlreadyLiked(like *domain.Like) error {
	var existing domain.Like
	err := lv.db.First(&existing, "user_id = ? AND post_id = ?", like.UserID, like.PostID).Error
	if err == nil {
		return errs.Errorf(errs.ECONFLICT, "You already liked this post.")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}
	return nil
}

// postHasLikes makes sure that the post exists and has at least one like
// from anyone.
func (lv *likeValidator) postHasLikes(like *domain.Like) error {
	err := lv.db.First(&domain.Post{}, "id = ?", like.PostID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.Errorf(errs.ENOTFOUND, "There is nothing to unlike.")
		}
		return err
	}
	var count int64
	err = lv.db.Model(&domain.Like{}).Where("post_id = ?", like.PostID).Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return errs.Errorf(errs.ENOTFOUND, "There is nothing to unlike.")
	}
	return nil
}

// userIdValid ensures that the userId is not empty.
func (lv *likeValidator) userIdValid(like *domain.Like) error {
	if like.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "User ID is invalid.")
	}
	return nil
}

// Create stores the data from the Like object in a new database record.
// A racing duplicate insert slips past the advisory check and is rejected
// here by the unique index instead.
func (lg *likeGorm) Create(like *domain.Like) error {
	err := lg.db.Create(like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.Errorf(errs.ECONFLICT, "You already liked this post.")
		}
		return err
	}
	return nil
}

// Delete permanently deletes the edge matching the Like object's pair.
func (lg *likeGorm) Delete(like *domain.Like) error {
	return lg.db.Delete(&domain.Like{}, "user_id = ? AND post_id = ?", like.UserID, like.PostID).Error
}

// CountByPost returns the total number of likes on the given post.
func (lg *likeGorm) CountByPost(postID int) (int, error) {
	var count int64
	err := lg.db.Model(&domain.Like{}).Where("post_id = ?", postID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// Exists reports whether the given user has liked the given post.
func (lg *likeGorm) Exists(userID, postID int) (bool, error) {
	var count int64
	err := lg.db.
		Model(&domain.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
