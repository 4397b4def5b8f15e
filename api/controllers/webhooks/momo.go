package webhooks

import (
	"encoding/json"
	"net/http"

	"github.com/minhngdev/foodcourt-backend/api/responses"
	momowebhook "github.com/minhngdev/foodcourt-backend/internal/webhooks/momo"
	pkgerrors "github.com/minhngdev/foodcourt-backend/pkg/errors"
	"github.com/minhngdev/foodcourt-backend/pkg/logger"
	"github.com/minhngdev/foodcourt-backend/pkg/momo"
)

// MomoIPN receives gateway callbacks. Replays of an applied outcome answer
// 200 so the gateway stops retrying; signature failures answer 400 before
// any state is touched.
func MomoIPN(svc *momowebhook.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload momo.IPNPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid callback body"))
			return
		}

		if err := svc.HandleIPN(r.Context(), payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "received"})
	}
}
