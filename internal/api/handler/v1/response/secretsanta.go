package response

import (
	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/domain"
)

type SuccessResponse struct {
	Success bool `json:"success"`
}

// TargetView is what a giver may see about their assigned receiver:
// name and wishlist, nothing else.
type TargetView struct {
	Name     string                `json:"name"`
	Wishlist []domain.WishlistItem `json:"wishlist"`
}

type StatusResponse struct {
	IsRaffleDone bool                `json:"isRaffleDone"`
	User         *domain.Participant `json:"user"`
	Target       *TargetView         `json:"target"`
}
