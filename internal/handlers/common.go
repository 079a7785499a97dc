package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"branchdesk-backend/internal/apperr"
	"branchdesk-backend/internal/auth"
	"branchdesk-backend/internal/logger"
	"branchdesk-backend/internal/middleware"
	"branchdesk-backend/pkg/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// maxJSONBody caps request bodies of the JSON endpoints
const maxJSONBody = 1 << 20

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.ErrInvalidInput.Withf("invalid request body: %v", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		return 0, apperr.ErrInvalidInput.Withf("invalid %s", name)
	}
	return id, nil
}

func identity(r *http.Request) (auth.Identity, error) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return auth.Identity{}, apperr.ErrUnauthenticated
	}
	return id, nil
}

func fail(w http.ResponseWriter, r *http.Request, base *zap.Logger, err error) {
	utils.Error(w, logger.FromContext(r.Context(), base), err)
}
