package claims

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// RouteRegistrar captures the router methods used by the controller.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Patch(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

type APIControllerRoutes struct {
	Register string
	Login    string
	Claims   string
	Review   string
}

// APIController exposes the registration, login, and claim lifecycle
// endpoints as a JSON API.
type APIController struct {
	Debug      bool
	Logger     Logger
	Repo       RepositoryManager
	Auther     *Auther
	Service    *ClaimService
	Routes     *APIControllerRoutes
	ContextKey string
	Protected  router.MiddlewareFunc
}

type APIControllerOption func(*APIController) *APIController

func WithControllerLogger(logger Logger) APIControllerOption {
	return func(c *APIController) *APIController {
		c.Logger = logger
		return c
	}
}

func WithControllerDebug(debug bool) APIControllerOption {
	return func(c *APIController) *APIController {
		c.Debug = debug
		return c
	}
}

func NewAPIController(repo RepositoryManager, auther *Auther, service *ClaimService, protected router.MiddlewareFunc, opts ...APIControllerOption) *APIController {
	c := &APIController{
		Logger:     defLogger{},
		Repo:       repo,
		Auther:     auther,
		Service:    service,
		Protected:  protected,
		ContextKey: "session",
		Routes: &APIControllerRoutes{
			Register: "/users/register",
			Login:    "/auth/login",
			Claims:   "/claims",
			Review:   "/claims/:id",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in claims controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in claims controller...")
	}

	if c.Service == nil {
		panic("Missing ClaimService in claims controller...")
	}

	return c
}

// RegisterRoutes registers the API endpoints. The claim routes require a
// valid bearer token; registration and login do not.
func (a *APIController) RegisterRoutes(app RouteRegistrar) {
	app.Post(a.Routes.Register, a.RegisterPost)
	app.Post(a.Routes.Login, a.LoginPost)

	app.Post(a.Routes.Claims, a.ClaimCreate, a.Protected)
	app.Get(a.Routes.Claims, a.ClaimsIndex, a.Protected)
	app.Patch(a.Routes.Review, a.ClaimReviewPatch, a.Protected)
}

// RegisterRequest payload
type RegisterRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	Role     string `form:"role" json:"role"`
}

// Validate will run validation rules
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
		validation.Field(&r.Role, validation.Required, validation.In(string(RolePatient), string(RoleInsurer))),
	)
}

func (a *APIController) RegisterPost(ctx router.Context) error {
	payload := new(RegisterRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register account parse payload: ", "error", err)
		return a.badRequest(ctx, "Error parsing body")
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register account validate payload: ", "error", err)
		return a.validationFailed(ctx, err)
	}

	if a.Debug {
		fmt.Println("======= ACCOUNT REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("===============================")
	}

	var account *Account

	req := RegisterAccountMessage{
		Email:     payload.Email,
		Password:  payload.Password,
		Role:      payload.Role,
		UseHashid: true,
		OnResponse: func(a *Account) {
			account = a
		},
	}

	registerAccount := RegisterAccountHandler{Repo: a.Repo}
	if err := registerAccount.Execute(ctx.Context(), req); err != nil {
		a.Logger.Error("register account error: ", "error", err)
		return WriteError(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, map[string]any{
		"id":    account.ID,
		"email": account.Email,
		"role":  account.Role,
	})
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// GetIdentifier returns the identifier
func (r LoginRequest) GetIdentifier() string {
	return r.Email
}

// GetPassword will return the password
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *APIController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: ", "error", err)
		return a.badRequest(ctx, "Error parsing body")
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("login validate payload: ", "error", err)
		return a.validationFailed(ctx, err)
	}

	token, err := a.Auther.Login(ctx.Context(), payload.GetIdentifier(), payload.GetPassword())
	if err != nil {
		// Unknown emails and wrong passwords already collapse into the
		// credentials error before this point, so anything else here is a
		// backend failure and keeps its own status.
		a.Logger.Error("login error: ", "error", err)
		return WriteError(ctx, err)
	}

	session, err := a.Auther.SessionFromToken(token)
	if err != nil {
		return WriteError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"access_token": token,
		"role":         session.Role(),
		"email":        session.Email(),
	})
}

// ClaimCreatePayload is the claim submission payload
type ClaimCreatePayload struct {
	Name        string  `form:"name" json:"name"`
	Email       string  `form:"email" json:"email"`
	ClaimAmount float64 `form:"claimAmount" json:"claimAmount"`
	Description string  `form:"description" json:"description"`
	DocumentURL string  `form:"documentUrl" json:"documentUrl"`
}

// Validate will validate the payload
func (r ClaimCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.ClaimAmount, validation.Required, validation.Min(0.0)),
		validation.Field(&r.Description, validation.Required, validation.Length(1, 2000)),
		validation.Field(&r.DocumentURL, is.URL),
	)
}

func (a *APIController) ClaimCreate(ctx router.Context) error {
	actor, ok := GetRouterClaims(ctx, a.ContextKey)
	if !ok {
		return WriteError(ctx, ErrUnableToDecodeSession)
	}

	payload := new(ClaimCreatePayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("claim create parse payload: ", "error", err)
		return a.badRequest(ctx, "Error parsing body")
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("claim create validate payload: ", "error", err)
		return a.validationFailed(ctx, err)
	}

	if a.Debug {
		fmt.Println("======= CLAIM SUBMIT ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("===========================")
	}

	record, err := a.Service.Submit(ctx.Context(), actor, ClaimSubmission{
		Name:        payload.Name,
		Email:       payload.Email,
		ClaimAmount: payload.ClaimAmount,
		Description: payload.Description,
		DocumentURL: payload.DocumentURL,
	})
	if err != nil {
		a.Logger.Error("claim create error: ", "error", err)
		return WriteError(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, record)
}

func (a *APIController) ClaimsIndex(ctx router.Context) error {
	actor, ok := GetRouterClaims(ctx, a.ContextKey)
	if !ok {
		return WriteError(ctx, ErrUnableToDecodeSession)
	}

	records, err := a.Service.ListClaims(ctx.Context(), actor)
	if err != nil {
		a.Logger.Error("claims index error: ", "error", err)
		return WriteError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, records)
}

// ClaimReviewPayload carries the reviewable fields. Absent fields leave the
// stored values untouched.
type ClaimReviewPayload struct {
	Status         *ClaimStatus `form:"status" json:"status"`
	ApprovedAmount *float64     `form:"approvedAmount" json:"approvedAmount"`
	Comments       *string      `form:"comments" json:"comments"`
}

// Validate will validate the payload
func (r ClaimReviewPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.In(StatusPending, StatusApproved, StatusRejected)),
		validation.Field(&r.ApprovedAmount, validation.Min(0.0)),
		validation.Field(&r.Comments, validation.Length(0, 2000)),
	)
}

func (a *APIController) ClaimReviewPatch(ctx router.Context) error {
	actor, ok := GetRouterClaims(ctx, a.ContextKey)
	if !ok {
		return WriteError(ctx, ErrUnableToDecodeSession)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return WriteError(ctx, errors.New("Invalid claim identifier", errors.CategoryBadInput).
			WithTextCode("INVALID_CLAIM_ID").
			WithCode(errors.CodeBadRequest))
	}

	payload := new(ClaimReviewPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("claim review parse payload: ", "error", err)
		return a.badRequest(ctx, "Error parsing body")
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("claim review validate payload: ", "error", err)
		return a.validationFailed(ctx, err)
	}

	record, err := a.Service.Review(ctx.Context(), actor, id, ClaimReview{
		Status:         payload.Status,
		ApprovedAmount: payload.ApprovedAmount,
		Comments:       payload.Comments,
	})
	if err != nil {
		a.Logger.Error("claim review error: ", "error", err)
		return WriteError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, record)
}

func (a *APIController) badRequest(ctx router.Context, msg string) error {
	return ctx.JSON(router.StatusBadRequest, map[string]any{
		"error": msg,
	})
}

func (a *APIController) validationFailed(ctx router.Context, err error) error {
	return ctx.JSON(router.StatusBadRequest, map[string]any{
		"error":      "Validation failed",
		"validation": FormatValidationErrorToMap(err),
	})
}

// FormatValidationErrorToMap flattens ozzo validation errors into a
// field to message map
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	if verrs, ok := err.(validation.Errors); ok {
		for field, ferr := range verrs {
			out[field] = ferr.Error()
		}
		return out
	}

	out["error"] = err.Error()
	return out
}
