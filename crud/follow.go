package crud

import (
	"errors"

	"gorm.io/gorm"

	"goNetwork/domain"
	"goNetwork/errs"
)

// FollowService manages Follows and answers social-graph queries.
// It implements the domain.FollowService interface.
type FollowService struct {
	followValidator
}

// followValidator runs validations on incoming Follow data.
// On success, it passes the data on to followGorm.
// Otherwise, it returns the error of the validation that has failed.
type followValidator struct {
	followGorm
}

// followGorm runs CRUD operations on the database using incoming Follow data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type followGorm struct {
	db *gorm.DB
}

// NewFollowService returns an instance of FollowService.
func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{
		followValidator{
			followGorm{
				db: db,
			},
		},
	}
}

// Ensure the FollowService struct properly implements the domain.FollowService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.FollowService = &FollowService{}

// Create runs validations needed for creating new Follow database records.
// Users may follow themselves, only duplicate edges are rejected.
func (fv *followValidator) Create(follow *domain.Follow) error {
	err := runFollowValFns(follow,
		fv.followedUserExists,
		fv.notAlreadyFollowed)
	if err != nil {
		return err
	}
	return fv.followGorm.Create(follow)
}

// Delete runs validations needed for deleting existing Follow database records.
func (fv *followValidator) Delete(follow *domain.Follow) error {
	err := runFollowValFns(follow,
		fv.followedUserExists,
		fv.followExists)
	if err != nil {
		return err
	}
	return fv.followGorm.Delete(follow)
}

// runFollowValFns runs any number of functions of type followValFn on the passed in Follow object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runFollowValFns(follow *domain.Follow, fns ...followValFn) error {
	for _, fn := range fns {
		if err := fn(follow); err != nil {
			return err
		}
	}
	return nil
}

// A followValFn is any function that takes in a pointer to a domain.Follow object and returns an error.
type followValFn func(follow *domain.Follow) error

// followExists makes sure that the Follow edge to be deleted actually exists.
func (fv *followValidator) followExists(follow *domain.Follow) error {
	var existing domain.Follow
	err := fv.db.First(&existing, "follower_id = ? AND followed_id = ?", follow.FollowerID, follow.FollowedID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.Errorf(errs.ECONFLICT, "You don't follow this user.")
		}
		return err
	}
	return nil
}

// followedUserExists makes sure that the user on the receiving end of the edge exists.
func (fv *followValidator) followedUserExists(follow *domain.Follow) error {
	err := fv.db.First(&domain.User{}, "id = ?", follow.FollowedID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.Errorf(errs.ENOTFOUND, "The user to be followed does not exist.")
		}
		return err
	}
	return nil
}

// notAlreadyFollowed makes sure that no edge exists yet for this pair. This
// check is advisory, the unique index on the pair is what actually guarantees
// it under concurrent requests.
func (fv *followValidator) notAlreadyFollowed(follow *domain.Follow) error {
	var existing domain.Follow
	err := fv.db.First(&existing, "follower_id = ? AND followed_id = ?", follow.FollowerID, follow.FollowedID).Error
	if err == nil {
		return errs.Errorf(errs.ECONFLICT, "You already follow this user.")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}
	return nil
}

// Create stores the data from the Follow object in a new database record.
// A racing duplicate insert slips past the advisory check and is rejected
// here by the unique index instead.
func (fg *followGorm) Create(follow *domain.Follow) error {
	err := fg.db.Create(follow).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.Errorf(errs.ECONFLICT, "You already follow this user.")
		}
		return err
	}
	return nil
}

// Delete permanently deletes the edge matching the Follow object's pair.
func (fg *followGorm) Delete(follow *domain.Follow) error {
	return fg.db.Delete(&domain.Follow{}, "follower_id = ? AND followed_id = ?", follow.FollowerID, follow.FollowedID).Error
}

// Followees returns the IDs of all users the given user follows.
// The order of the result carries no meaning.
func (fg *followGorm) Followees(userID int) ([]int, error) {
	var ids []int
	err := fg.db.
		Model(&domain.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("followed_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// FollowerCount returns the number of users following the given user.
func (fg *followGorm) FollowerCount(userID int) (int, error) {
	var count int64
	err := fg.db.Model(&domain.Follow{}).Where("followed_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// FolloweeCount returns the number of users the given user follows.
func (fg *followGorm) FolloweeCount(userID int) (int, error) {
	var count int64
	err := fg.db.Model(&domain.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// IsFollowing reports whether an edge exists from follower to followed.
func (fg *followGorm) IsFollowing(followerID, followedID int) (bool, error) {
	var count int64
	err := fg.db.
		Model(&domain.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
