package inbound

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rankstage/rankstage/internal/identity/usecase"
	"github.com/rankstage/rankstage/internal/pkg/goerror"
)

// The challenge endpoints keep a fixed wire contract: `{success, token,
// expiresAt}` from the generator, `{success, valid}` from the verifier and
// `{success:false, error}` on failure. They are registered raw so the
// application envelope never wraps them.

type challengeGenerateRequest struct {
	Email       string `json:"email"`
	RequestType string `json:"requestType"`
	Name        string `json:"name"`
}

type challengeGenerateResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

type challengeVerifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
	Token string `json:"token"`
}

type challengeVerifyResponse struct {
	Success bool `json:"success"`
	Valid   bool `json:"valid"`
}

type challengeErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ChallengeGenerate issues an email verification challenge.
// @Summary Generate email verification challenge
// @Description Mails a one-time code and returns a signed challenge token with its expiry.
// @Tags Identity, Email Verification
// @Accept json
// @Produce json
// @Param request body challengeGenerateRequest true "Challenge payload"
// @Success 200 {object} challengeGenerateResponse "Challenge issued"
// @Failure 400 {object} challengeErrorResponse "Missing or invalid fields"
// @Failure 404 {object} challengeErrorResponse "No account for the email"
// @Failure 500 {object} challengeErrorResponse "Secret not configured"
// @Failure 502 {object} challengeErrorResponse "Mail delivery failed"
// @Router /verify-email/generator [post]
func (h *HTTPEndpoint) ChallengeGenerate() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req challengeGenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeChallengeError(w, goerror.NewInvalidFormat("Invalid request body"))
			return
		}

		resp, err := h.uc.OTPIssue(r.Context(), usecase.OTPIssueInput{
			Email:       req.Email,
			RequestType: req.RequestType,
			Name:        req.Name,
		})
		if err != nil {
			writeChallengeError(w, err)
			return
		}

		writeChallengeJSON(w, http.StatusOK, challengeGenerateResponse{
			Success:   true,
			Token:     resp.Token,
			ExpiresAt: resp.ExpiresAt,
		})
	})
}

// ChallengeVerify checks a submitted code against a challenge token.
// @Summary Verify email challenge code
// @Description Checks the code against the challenge token. An expired or tampered token answers valid=false, not an error.
// @Tags Identity, Email Verification
// @Accept json
// @Produce json
// @Param request body challengeVerifyRequest true "Verification payload"
// @Success 200 {object} challengeVerifyResponse "Verification result"
// @Failure 400 {object} challengeErrorResponse "Missing fields"
// @Failure 500 {object} challengeErrorResponse "Secret not configured"
// @Router /verify-email/verifier [post]
func (h *HTTPEndpoint) ChallengeVerify() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req challengeVerifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeChallengeError(w, goerror.NewInvalidFormat("Invalid request body"))
			return
		}

		resp, err := h.uc.OTPVerify(r.Context(), usecase.OTPVerifyInput{
			Email: req.Email,
			OTP:   req.OTP,
			Token: req.Token,
		})
		if err != nil {
			writeChallengeError(w, err)
			return
		}

		writeChallengeJSON(w, http.StatusOK, challengeVerifyResponse{
			Success: true,
			Valid:   resp.Valid,
		})
	})
}

func writeChallengeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "Internal server error"

	var gerr *goerror.Error
	if errors.As(err, &gerr) {
		status = gerr.StatusCode()
		if gerr.Msg() != "" {
			msg = gerr.Msg()
		}
	}

	if errors.Is(err, usecase.ErrOTPSecretMissing) {
		msg = "Server misconfigured"
	}

	writeChallengeJSON(w, status, challengeErrorResponse{Success: false, Error: msg})
}

func writeChallengeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("challenge: failed to encode response", "error", err)
	}
}
