package httpapi

import (
	"errors"

	catalogapp "github.com/billfinity/backoffice/internal/domains/catalog/application"
	catalogdomain "github.com/billfinity/backoffice/internal/domains/catalog/domain"
	catalogports "github.com/billfinity/backoffice/internal/domains/catalog/ports"
	customerapp "github.com/billfinity/backoffice/internal/domains/customers/application"
	customerdomain "github.com/billfinity/backoffice/internal/domains/customers/domain"
	customerports "github.com/billfinity/backoffice/internal/domains/customers/ports"
	orderapp "github.com/billfinity/backoffice/internal/domains/orders/application"
	orderdomain "github.com/billfinity/backoffice/internal/domains/orders/domain"
	orderports "github.com/billfinity/backoffice/internal/domains/orders/ports"
	userdomain "github.com/billfinity/backoffice/internal/domains/users/domain"
	userports "github.com/billfinity/backoffice/internal/domains/users/ports"
	apierrors "github.com/billfinity/backoffice/internal/shared/errors"
)

// newResponder assembles the error mapper chain covering every bounded
// context. Order matters: the most specific mappers run first.
func newResponder() *apierrors.Responder {
	return apierrors.NewResponder(
		mapOrderErrors,
		mapCatalogErrors,
		mapCustomerErrors,
		mapUserErrors,
	)
}

func mapOrderErrors(err error) (apierrors.ProblemDetail, bool) {
	var insufficient *orderports.InsufficientStockError
	if errors.As(err, &insufficient) {
		problem := apierrors.NewConflictProblem(insufficient.Error()).
			WithExtension("item_id", insufficient.ItemID).
			WithExtension("sku", insufficient.SKU).
			WithExtension("available", insufficient.Available).
			WithExtension("requested", insufficient.Requested)
		return problem, true
	}

	var missingItem *orderports.ItemNotFoundError
	if errors.As(err, &missingItem) {
		problem := apierrors.NewNotFoundProblem("item", missingItem.ItemID).
			WithExtension("item_id", missingItem.ItemID)
		return problem, true
	}

	switch {
	case errors.Is(err, orderports.ErrCustomerNotFound):
		return apierrors.ErrNotFound.WithDetail("customer not found"), true
	case errors.Is(err, orderports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("order not found"), true
	case errors.Is(err, orderdomain.ErrNotPending):
		return apierrors.ErrConflict.WithDetail(orderdomain.ErrNotPending.Error()), true
	case errors.Is(err, orderapp.ErrInvalidInput),
		errors.Is(err, orderdomain.ErrNoLines),
		errors.Is(err, orderdomain.ErrInvalidQuantity):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapCatalogErrors(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, catalogports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("item not found"), true
	case errors.Is(err, catalogports.ErrDuplicateSKU):
		return apierrors.NewConflictProblem(catalogports.ErrDuplicateSKU.Error()), true
	case errors.Is(err, catalogapp.ErrItemReferenced):
		return apierrors.NewConflictProblem(catalogapp.ErrItemReferenced.Error()), true
	case errors.Is(err, catalogdomain.ErrEmptyName),
		errors.Is(err, catalogdomain.ErrEmptySKU),
		errors.Is(err, catalogdomain.ErrNegativePrice),
		errors.Is(err, catalogdomain.ErrNegativeStock),
		errors.Is(err, catalogdomain.ErrInvalidGSTRate),
		errors.Is(err, catalogdomain.ErrInvalidComponentQty):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapCustomerErrors(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, customerports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("customer not found"), true
	case errors.Is(err, customerapp.ErrCustomerReferenced):
		return apierrors.NewConflictProblem(customerapp.ErrCustomerReferenced.Error()), true
	case errors.Is(err, customerdomain.ErrEmptyName),
		errors.Is(err, customerdomain.ErrInvalidEmail):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapUserErrors(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, userports.ErrInvalidCredentials):
		return apierrors.ErrUnauthorized.WithDetail("invalid email or password"), true
	case errors.Is(err, userports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("user not found"), true
	case errors.Is(err, userports.ErrDuplicateEmail):
		return apierrors.NewConflictProblem(userports.ErrDuplicateEmail.Error()), true
	case errors.Is(err, userdomain.ErrEmptyName),
		errors.Is(err, userdomain.ErrEmptyEmail),
		errors.Is(err, userdomain.ErrInvalidEmail),
		errors.Is(err, userdomain.ErrWeakPassword):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
