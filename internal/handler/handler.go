package handler

import (
	"context"
	"reflect"
	"strings"
	"time"

	"sudhamrit-be/internal/admin"
	"sudhamrit-be/internal/auth"
	"sudhamrit-be/internal/cart"
	"sudhamrit-be/internal/category"
	"sudhamrit-be/internal/dashboard"
	"sudhamrit-be/internal/location"
	"sudhamrit-be/internal/order"
	"sudhamrit-be/internal/product"
	"sudhamrit-be/internal/user"

	"github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	tokens     *auth.TokenManager
	users      user.Service
	admins     admin.Service
	products   product.Service
	categories category.Service
	carts      cart.Service
	checkout   order.CheckoutService
	orders     order.Service
	dashboard  dashboard.Service
	locations  location.Service
	db         Pinger

	secureCookies bool
	intentTTL     time.Duration
	adminOrders   int
	validate      *validator.Validate
	forms         *form.Decoder
}

type Deps struct {
	Tokens     *auth.TokenManager
	Users      user.Service
	Admins     admin.Service
	Products   product.Service
	Categories category.Service
	Carts      cart.Service
	Checkout   order.CheckoutService
	Orders     order.Service
	Dashboard  dashboard.Service
	Locations  location.Service
	DB         Pinger

	SecureCookies bool
	IntentTTL     time.Duration
	AdminOrders   int
}

func New(d Deps) *Handler {
	if d.IntentTTL <= 0 {
		d.IntentTTL = 30 * time.Minute
	}
	if d.AdminOrders <= 0 {
		d.AdminOrders = 200
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Handler{
		tokens:        d.Tokens,
		users:         d.Users,
		admins:        d.Admins,
		products:      d.Products,
		categories:    d.Categories,
		carts:         d.Carts,
		checkout:      d.Checkout,
		orders:        d.Orders,
		dashboard:     d.Dashboard,
		locations:     d.Locations,
		db:            d.DB,
		secureCookies: d.SecureCookies,
		intentTTL:     d.IntentTTL,
		adminOrders:   d.AdminOrders,
		validate:      validate,
		forms:         form.NewDecoder(),
	}
}
