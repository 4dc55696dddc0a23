package handler

import (
	"errors"
	"net/http"

	"sudhamrit-be/internal/admin"
	"sudhamrit-be/internal/cart"
	"sudhamrit-be/internal/location"
	"sudhamrit-be/internal/logger"
	"sudhamrit-be/internal/order"
	"sudhamrit-be/internal/payment"
	"sudhamrit-be/internal/product"
	"sudhamrit-be/internal/storage"
	"sudhamrit-be/internal/user"
	"sudhamrit-be/internal/utils"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const genericFailure = "something went wrong, please try again"

type errorClass struct {
	code  int
	level utils.Level
}

var (
	classInvalid  = errorClass{http.StatusBadRequest, utils.LevelDanger}
	classAuth     = errorClass{http.StatusUnauthorized, utils.LevelDanger}
	classForbid   = errorClass{http.StatusForbidden, utils.LevelDanger}
	classNotFound = errorClass{http.StatusNotFound, utils.LevelWarning}
	classConflict = errorClass{http.StatusConflict, utils.LevelWarning}
	classRejected = errorClass{http.StatusBadRequest, utils.LevelWarning}
	classGateway  = errorClass{http.StatusBadGateway, utils.LevelDanger}
)

// known maps domain sentinels to a response class. The sentinel text is
// safe to show to the caller.
var known = []struct {
	err   error
	class errorClass
}{
	{errBadPayload, classInvalid},
	{user.ErrInvalidInput, classInvalid},
	{user.ErrWeakPassword, classInvalid},
	{admin.ErrInvalidInput, classInvalid},
	{product.ErrNameRequired, classInvalid},
	{product.ErrCategoryReq, classInvalid},
	{product.ErrInvalidPrice, classInvalid},
	{product.ErrInvalidStock, classInvalid},
	{storage.ErrUnsupportedImage, classInvalid},
	{storage.ErrImageTooLarge, classInvalid},
	{cart.ErrInvalidQuantity, classInvalid},
	{cart.ErrInvalidProduct, classInvalid},
	{order.ErrInvalidMethod, classInvalid},
	{location.ErrAddressRequired, classInvalid},
	{payment.ErrSignatureMismatch, classInvalid},

	{user.ErrInvalidCredentials, classAuth},
	{admin.ErrInvalidCredentials, classAuth},
	{admin.ErrInviteRequired, classForbid},

	{user.ErrUserNotFound, classNotFound},
	{admin.ErrAdminNotFound, classNotFound},
	{product.ErrProductNotFound, classNotFound},
	{cart.ErrProductNotFound, classNotFound},
	{cart.ErrCartItemNotFound, classNotFound},
	{order.ErrOrderNotFound, classNotFound},
	{order.ErrUserNotFound, classNotFound},
	{location.ErrLocationNotFound, classNotFound},

	{user.ErrAccountExists, classConflict},
	{admin.ErrAdminExists, classConflict},
	{order.ErrDuplicatePayment, classConflict},
	{order.ErrAmountMismatch, classConflict},

	{order.ErrEmptyCart, classRejected},
	{order.ErrInvalidAmount, classRejected},
	{order.ErrIntentMismatch, classRejected},

	{payment.ErrGatewayUnavailable, classGateway},
	{payment.ErrGatewayNotConfigure, classGateway},
	{location.ErrGeocoderUnavailable, classGateway},
}

func classify(err error) (errorClass, error, bool) {
	for _, k := range known {
		if errors.Is(err, k.err) {
			return k.class, k.err, true
		}
	}
	return errorClass{}, nil, false
}

// writeError renders err in the response envelope. Unknown errors are
// logged and reported with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		utils.WriteEnvelope(w, http.StatusBadRequest, utils.LevelDanger, validationMessage(verrs), nil)
		return
	}

	if class, sentinel, ok := classify(err); ok {
		utils.WriteEnvelope(w, class.code, class.level, sentinel.Error(), nil)
		return
	}

	logger.FromCtx(r.Context()).Error("request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	utils.Fail(w, http.StatusInternalServerError, genericFailure)
}

func validationMessage(verrs validator.ValidationErrors) string {
	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return field + " must be at least " + fe.Param() + " characters"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	}
	return field + " is invalid"
}
