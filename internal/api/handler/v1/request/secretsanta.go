package request

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (req *RegisterRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.Password, validation.Required),
	)
}

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (req *LoginRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required),
		validation.Field(&req.Password, validation.Required),
	)
}

type WishlistItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type UpdateWishlistRequest struct {
	UserID   string         `json:"userId"`
	Wishlist []WishlistItem `json:"wishlist"`
}

func (req *UpdateWishlistRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Wishlist, validation.NotNil),
	)
	if err != nil {
		return err
	}

	for _, item := range req.Wishlist {
		err = validation.ValidateStruct(
			&item,
			validation.Field(&item.Name, validation.Required, validation.Length(1, 100)),
			validation.Field(&item.URL, is.URL),
		)
		if err != nil {
			return fmt.Errorf("wishlist item %q: %w", item.Name, err)
		}
	}

	return nil
}

type RemoveUserRequest struct {
	AdminID      string `json:"adminId"`
	TargetUserID string `json:"targetUserId"`
}

func (req *RemoveUserRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.AdminID, validation.Required),
		validation.Field(&req.TargetUserID, validation.Required),
	)
}

type RaffleRequest struct {
	AdminID string `json:"adminId"`
}

func (req *RaffleRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.AdminID, validation.Required),
	)
}
