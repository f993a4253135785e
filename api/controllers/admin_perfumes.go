package controllers

import (
	"net/http"

	"github.com/maisonessence/parfumerie-backend/api/responses"
	"github.com/maisonessence/parfumerie-backend/api/validators"
	"github.com/maisonessence/parfumerie-backend/internal/catalog"
	pkgerrors "github.com/maisonessence/parfumerie-backend/pkg/errors"
	"github.com/maisonessence/parfumerie-backend/pkg/logger"
)

// AdminPerfumesList returns the whole catalog, including out-of-stock
// items the storefront hides.
func AdminPerfumesList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		perfumes, err := svc.AdminList(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, perfumes)
	}
}

// AdminPerfumesCreate adds a new catalog item.
func AdminPerfumesCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body catalog.CreatePerfumePayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		perfume, err := svc.AdminCreate(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, perfume)
	}
}

// AdminPerfumesUpdate applies a partial update to a catalog item.
func AdminPerfumesUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		perfumeID, err := parseIDParam(r, "perfumeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body catalog.UpdatePerfumePayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		perfume, err := svc.AdminUpdate(r.Context(), perfumeID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, perfume)
	}
}

// AdminPerfumesDelete removes a catalog item and its promotions.
func AdminPerfumesDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		perfumeID, err := parseIDParam(r, "perfumeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.AdminDelete(r.Context(), perfumeID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
