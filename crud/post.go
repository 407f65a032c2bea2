package crud

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"goNetwork/domain"
	"goNetwork/errs"
)

// PostService manages Posts.
// It implements the domain.PostService interface.
type PostService struct {
	postValidator
}

// postValidator runs validations on incoming Post data.
// On success, it passes the data on to postGorm.
// Otherwise, it returns the error of the validation that has failed.
type postValidator struct {
	postGorm
}

// postGorm runs CRUD operations on the database using incoming Post data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type postGorm struct {
	db *gorm.DB
}

// NewPostService returns an instance of PostService.
func NewPostService(db *gorm.DB) *PostService {
	return &PostService{
		postValidator{
			postGorm{
				db: db,
			},
		},
	}
}

// Ensure the PostService struct properly implements the domain.PostService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.PostService = &PostService{}

// Create runs validations needed for creating new Post database records.
func (pv *postValidator) Create(post *domain.Post) error {
	err := runPostValFns(post,
		pv.userIdValid,
		pv.bodyNotBlank)
	if err != nil {
		return err
	}
	return pv.postGorm.Create(post)
}

// Edit runs validations needed for editing existing Post database records.
// A blank new body is accepted, only creation insists on content.
func (pv *postValidator) Edit(post *domain.Post, newBody string) error {
	err := runPostValFns(post, pv.idValid)
	if err != nil {
		return err
	}
	return pv.postGorm.Edit(post, newBody)
}

// runPostValFns runs any number of functions of type postValFn on the passed in Post object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runPostValFns(post *domain.Post, fns ...postValFn) error {
	for _, fn := range fns {
		if err := fn(post); err != nil {
			return err
		}
	}
	return nil
}

// A postValFn is any function that takes in a pointer to a domain.Post object and returns an error.
type postValFn = func(post *domain.Post) error

// bodyNotBlank makes sure that the Post's body is not empty or whitespace only.
func (pv *postValidator) bodyNotBlank(post *domain.Post) error {
	if strings.TrimSpace(post.Body) == "" {
		return errs.Errorf(errs.EINVALID, "Post body must not be empty.")
	}
	return nil
}

// idValid makes sure that the passed in ID of a Post to be edited is greater than 0.
func (pv *postValidator) idValid(post *domain.Post) error {
	if post.ID <= 0 {
		return errs.Errorf(errs.EINVALID, "Post ID is invalid.")
	}
	return nil
}

// userIdValid ensures that the userId is not empty.
func (pv *postValidator) userIdValid(post *domain.Post) error {
	if post.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "User ID is invalid.")
	}
	return nil
}

// ByID retrieves a single Post by ID, along with its author.
func (pg *postGorm) ByID(id int) (*domain.Post, error) {
	var post domain.Post
	err := pg.db.
		Preload("User").
		First(&post, "id = ?", id).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
		}
		return nil, err
	}
	return &post, nil
}

// Create stores the data from the Post object in a new database record.
func (pg *postGorm) Create(post *domain.Post) error {
	if err := pg.db.Create(post).Error; err != nil {
		return err
	}
	if err := pg.db.Preload("User").First(post).Error; err != nil {
		return err
	}
	return nil
}

// Edit sets a new body on an existing Post record and marks it as edited.
func (pg *postGorm) Edit(post *domain.Post, newBody string) error {
	now := time.Now()
	err := pg.db.Model(post).Updates(map[string]interface{}{
		"body":      newBody,
		"edited":    true,
		"edited_at": now,
	}).Error
	if err != nil {
		return err
	}
	post.Body = newBody
	post.Edited = true
	post.EditedAt = &now
	return nil
}
