package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/api/handler/v1/request"
	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/domain"
	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/service"
)

type SecretSantaService interface {
	Register(ctx context.Context, name, password string) (domain.Participant, error)
	Login(ctx context.Context, name, password string) (domain.Participant, error)
	PublicParticipants(ctx context.Context) ([]domain.PublicParticipant, error)
	UpdateWishlist(ctx context.Context, userID string, items []domain.WishlistItem) (domain.Participant, error)
	Remove(ctx context.Context, adminID, targetID string) error
	RunRaffle(ctx context.Context, adminID string) error
	Status(ctx context.Context, userID string) (service.Status, error)
}

type SecretSantaHandler struct {
	svc SecretSantaService
}

func NewSecretSantaHandler(svc SecretSantaService) *SecretSantaHandler {
	return &SecretSantaHandler{
		svc: svc,
	}
}

// HandleRegister godoc
// @Summary      Register a new participant
// @Tags         secret-santa
// @Accept       json
// @Produce      json
// @Param        request  body      request.RegisterRequest  true  "request body"
// @Success      201      {object}  domain.Participant
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /secret-santa/register [post]
func (h *SecretSantaHandler) HandleRegister(ctx *gin.Context) {
	var req request.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	p, err := h.svc.Register(ctx.Request.Context(), req.Name, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrNameTaken) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrNameTaken))
			return
		}

		err = fmt.Errorf("v1.HandleRegister -> h.svc.Register -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, p)
}

// HandleLogin godoc
// @Summary      Login a participant
// @Tags         secret-santa
// @Accept       json
// @Produce      json
// @Param        request  body      request.LoginRequest  true  "request body"
// @Success      200      {object}  domain.Participant
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /secret-santa/login [post]
func (h *SecretSantaHandler) HandleLogin(ctx *gin.Context) {
	var req request.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	p, err := h.svc.Login(ctx.Request.Context(), req.Name, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrWrongCredentials) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))
			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, p)
}

// HandleGetParticipants godoc
// @Summary      List participants (public view)
// @Tags         secret-santa
// @Produce      json
// @Success      200  {array}   domain.PublicParticipant
// @Failure      500  {object}  response.Err
// @Router       /secret-santa/participants [get]
func (h *SecretSantaHandler) HandleGetParticipants(ctx *gin.Context) {
	participants, err := h.svc.PublicParticipants(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetParticipants -> h.svc.PublicParticipants -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, participants)
}

// HandleUpdateWishlist godoc
// @Summary      Replace a participant's wishlist
// @Tags         secret-santa
// @Accept       json
// @Produce      json
// @Param        request  body      request.UpdateWishlistRequest  true  "request body"
// @Success      200      {object}  domain.Participant
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /secret-santa/wishlist [post]
func (h *SecretSantaHandler) HandleUpdateWishlist(ctx *gin.Context) {
	var req request.UpdateWishlistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	items := make([]domain.WishlistItem, 0, len(req.Wishlist))
	for _, item := range req.Wishlist {
		items = append(items, domain.WishlistItem{
			ID:   item.ID,
			Name: item.Name,
			URL:  item.URL,
		})
	}

	p, err := h.svc.UpdateWishlist(ctx.Request.Context(), req.UserID, items)
	if err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("participant", "userId", req.UserID))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateWishlist -> h.svc.UpdateWishlist -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, p)
}

// HandleRemoveUser godoc
// @Summary      Remove a participant (admin only)
// @Description  Rejected once the raffle has run, so assignments cannot dangle.
// @Tags         secret-santa
// @Accept       json
// @Produce      json
// @Param        request  body      request.RemoveUserRequest  true  "request body"
// @Success      200      {object}  response.SuccessResponse
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /secret-santa/user [delete]
func (h *SecretSantaHandler) HandleRemoveUser(ctx *gin.Context) {
	var req request.RemoveUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err := h.svc.Remove(ctx.Request.Context(), req.AdminID, req.TargetUserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAdmin):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrParticipantNotFound):
			response.RenderErr(ctx, response.ErrNotFound("participant", "userId", req.TargetUserID))
		case errors.Is(err, service.ErrRaffleDone):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleRemoveUser -> h.svc.Remove -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.SuccessResponse{Success: true})
}

// HandleRaffle godoc
// @Summary      Run the raffle (admin only)
// @Description  Assigns every participant a target along a single random cycle. Runs once.
// @Tags         secret-santa
// @Accept       json
// @Produce      json
// @Param        request  body      request.RaffleRequest  true  "request body"
// @Success      200      {object}  response.SuccessResponse
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /secret-santa/raffle [post]
func (h *SecretSantaHandler) HandleRaffle(ctx *gin.Context) {
	var req request.RaffleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err := h.svc.RunRaffle(ctx.Request.Context(), req.AdminID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAdmin):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrNotEnoughParticipants):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrRaffleDone):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleRaffle -> h.svc.RunRaffle -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.SuccessResponse{Success: true})
}

// HandleStatus godoc
// @Summary      Raffle status and the caller's assignment
// @Tags         secret-santa
// @Produce      json
// @Param        userId  query     string  false  "participant id"
// @Success      200     {object}  response.StatusResponse
// @Failure      500     {object}  response.Err
// @Router       /secret-santa/status [get]
func (h *SecretSantaHandler) HandleStatus(ctx *gin.Context) {
	status, err := h.svc.Status(ctx.Request.Context(), ctx.Query("userId"))
	if err != nil {
		err = fmt.Errorf("v1.HandleStatus -> h.svc.Status -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	resp := response.StatusResponse{
		IsRaffleDone: status.RaffleDone,
		User:         status.User,
	}
	if status.Target != nil {
		resp.Target = &response.TargetView{
			Name:     status.Target.Name,
			Wishlist: status.Target.Wishlist,
		}
	}

	ctx.JSON(http.StatusOK, resp)
}
