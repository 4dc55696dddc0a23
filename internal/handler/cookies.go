package handler

import (
	"net/http"
	"time"

	"sudhamrit-be/internal/auth"
	"sudhamrit-be/internal/order"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

const intentCookie = "checkout_intent"

// intentClaims is the pending gateway order carried between initiate and
// confirm. It is signed, so the amount cannot be altered by the client.
type intentClaims struct {
	UserID         uint            `json:"uid"`
	GatewayOrderID string          `json:"oid"`
	Amount         decimal.Decimal `json:"amt"`
	Currency       string          `json:"cur"`
	Receipt        string          `json:"rcpt"`
	jwt.RegisteredClaims
}

func (h *Handler) setCookie(w http.ResponseWriter, name, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// startSession issues a session token for p and sets it as a cookie.
func (h *Handler) startSession(w http.ResponseWriter, p auth.Principal) (string, time.Time, error) {
	token, expires, err := h.tokens.Issue(p)
	if err != nil {
		return "", time.Time{}, err
	}
	h.setCookie(w, auth.AccessTokenCookie, token, expires)
	return token, expires, nil
}

func (h *Handler) storeIntent(w http.ResponseWriter, intent *order.Intent) error {
	expires := time.Now().Add(h.intentTTL)
	token, err := h.tokens.Sign(intentClaims{
		UserID:         intent.UserID,
		GatewayOrderID: intent.GatewayOrderID,
		Amount:         intent.Amount,
		Currency:       intent.Currency,
		Receipt:        intent.Receipt,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	if err != nil {
		return err
	}
	h.setCookie(w, intentCookie, token, expires)
	return nil
}

// loadIntent returns the pending intent, or nil when there is none or it
// has expired.
func (h *Handler) loadIntent(r *http.Request) *order.Intent {
	c, err := r.Cookie(intentCookie)
	if err != nil || c.Value == "" {
		return nil
	}

	var claims intentClaims
	if err := h.tokens.ParseInto(c.Value, &claims); err != nil {
		return nil
	}
	return &order.Intent{
		UserID:         claims.UserID,
		GatewayOrderID: claims.GatewayOrderID,
		Amount:         claims.Amount,
		Currency:       claims.Currency,
		Receipt:        claims.Receipt,
	}
}
