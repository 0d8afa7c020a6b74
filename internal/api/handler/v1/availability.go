package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/api/handler/v1/request"
	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/domain"
	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/service"
)

type AvailabilityService interface {
	ListVotes(ctx context.Context) ([]domain.DateVote, error)
	SetAvailability(ctx context.Context, name string, dates []string) ([]domain.DateVote, error)
	Toggle(ctx context.Context, name, date, action string) (domain.DateVote, error)
	Ranking(ctx context.Context) ([]domain.DateVote, error)
}

type AvailabilityHandler struct {
	svc AvailabilityService
}

func NewAvailabilityHandler(svc AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{
		svc: svc,
	}
}

// HandleListVotes godoc
// @Summary      List all date votes
// @Tags         availability
// @Produce      json
// @Success      200  {array}  domain.DateVote
// @Router       /availability [get]
func (h *AvailabilityHandler) HandleListVotes(ctx *gin.Context) {
	votes, err := h.svc.ListVotes(ctx.Request.Context())
	if err != nil {
		// Reads degrade to an empty board instead of failing the page.
		zap.L().Warn("listing votes failed", zap.Error(err))
		ctx.JSON(http.StatusOK, []domain.DateVote{})

		return
	}

	ctx.JSON(http.StatusOK, votes)
}

// HandleVote godoc
// @Summary      Update a user's availability
// @Description  Replaces the user's full availability (name + dates), or toggles a single date when an action is given.
// @Tags         availability
// @Accept       json
// @Produce      json
// @Param        request  body      request.VoteRequest  true  "request body"
// @Success      200      {array}   domain.DateVote
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /availability [post]
func (h *AvailabilityHandler) HandleVote(ctx *gin.Context) {
	var req request.VoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if req.IsToggle() {
		vote, err := h.svc.Toggle(ctx.Request.Context(), req.Name, req.Date, req.Action)
		if err != nil {
			if errors.Is(err, service.ErrUnknownAction) {
				response.RenderErr(ctx, response.ErrBadRequest(err))
				return
			}

			err = fmt.Errorf("v1.HandleVote -> h.svc.Toggle -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
			return
		}

		ctx.JSON(http.StatusOK, vote)
		return
	}

	votes, err := h.svc.SetAvailability(ctx.Request.Context(), req.Name, req.Dates)
	if err != nil {
		err = fmt.Errorf("v1.HandleVote -> h.svc.SetAvailability -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, votes)
}

// HandleRanking godoc
// @Summary      Top dates by vote count
// @Tags         availability
// @Produce      json
// @Success      200  {array}  domain.DateVote
// @Router       /availability/ranking [get]
func (h *AvailabilityHandler) HandleRanking(ctx *gin.Context) {
	ranking, err := h.svc.Ranking(ctx.Request.Context())
	if err != nil {
		zap.L().Warn("ranking votes failed", zap.Error(err))
		ctx.JSON(http.StatusOK, []domain.DateVote{})

		return
	}

	ctx.JSON(http.StatusOK, ranking)
}
