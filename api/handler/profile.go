package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/social/api/transport"
	"github.com/fastygo/social/pkg/httpcontext"
	profileUC "github.com/fastygo/social/usecase/profile"
)

type ProfileHandler struct {
	baseHandler
	uc *profileUC.UseCase
}

func NewProfileHandler(uc *profileUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Get own profile
// @Tags profile
// @Success 200 {object} transport.Envelope
// @Router /api/v1/profile [get]
func (h *ProfileHandler) GetProfile(ctx *fasthttp.RequestCtx) {
	userID, ok := h.caller(ctx)
	if !ok {
		return
	}
	h.get(ctx, userID)
}

// @Summary Get profile by user
// @Tags profile
// @Router /api/v1/profiles/{user_id} [get]
func (h *ProfileHandler) GetByUser(ctx *fasthttp.RequestCtx) {
	h.get(ctx, pathParam(ctx, "user_id"))
}

func (h *ProfileHandler) get(ctx *fasthttp.RequestCtx, userID string) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	profile, err := h.uc.Get(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, profile)
}

// @Summary List profiles
// @Tags profile
// @Router /api/v1/profiles [get]
func (h *ProfileHandler) ListProfiles(ctx *fasthttp.RequestCtx) {
	page := paging(ctx)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	profiles, err := h.uc.List(stdCtx, page.Limit, page.Offset)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	page.Count = len(profiles)
	h.respondPage(ctx, profiles, page)
}

// @Summary Create or update own profile
// @Tags profile
// @Accept json
// @Produce json
// @Router /api/v1/profile [post]
func (h *ProfileHandler) UpsertProfile(ctx *fasthttp.RequestCtx) {
	userID, ok := h.caller(ctx)
	if !ok {
		return
	}
	var req transport.ProfileRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	profile, err := h.uc.Upsert(stdCtx, userID, profileUC.Fields{
		Company:  req.Company,
		Website:  req.Website,
		Location: req.Location,
		Status:   req.Status,
		Skills:   req.SkillList(),
		Bio:      req.Bio,
		Social:   req.Social.Domain(),
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, profile)
}

// @Summary Delete own profile and account
// @Tags profile
// @Router /api/v1/profile [delete]
func (h *ProfileHandler) DeleteProfile(ctx *fasthttp.RequestCtx) {
	userID, ok := h.caller(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, userID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"deleted": userID})
}

// @Summary Add experience entry
// @Tags profile
// @Router /api/v1/profile/experience [put]
func (h *ProfileHandler) AddExperience(ctx *fasthttp.RequestCtx) {
	userID, ok := h.caller(ctx)
	if !ok {
		return
	}
	var req transport.ExperienceRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	profile, err := h.uc.AddExperience(stdCtx, userID, req.Domain())
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, profile)
}

// @Summary Remove experience entry
// @Tags profile
// @Router /api/v1/profile/experience/{id} [delete]
func (h *ProfileHandler) RemoveExperience(ctx *fasthttp.RequestCtx) {
	userID, ok := h.caller(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	profile, err := h.uc.RemoveExperience(stdCtx, userID, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, profile)
}

// @Summary Add education entry
// @Tags profile
// @Router /api/v1/profile/education [put]
func (h *ProfileHandler) AddEducation(ctx *fasthttp.RequestCtx) {
	userID, ok := h.caller(ctx)
	if !ok {
		return
	}
	var req transport.EducationRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	profile, err := h.uc.AddEducation(stdCtx, userID, req.Domain())
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, profile)
}

// @Summary Remove education entry
// @Tags profile
// @Router /api/v1/profile/education/{id} [delete]
func (h *ProfileHandler) RemoveEducation(ctx *fasthttp.RequestCtx) {
	userID, ok := h.caller(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	profile, err := h.uc.RemoveEducation(stdCtx, userID, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, profile)
}
