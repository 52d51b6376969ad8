package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Brutalvik/smartai-shopping-sub000/clients"
	apperrors "github.com/Brutalvik/smartai-shopping-sub000/common/errors"
	"github.com/Brutalvik/smartai-shopping-sub000/metrics"
	"github.com/Brutalvik/smartai-shopping-sub000/models"
	awspkg "github.com/Brutalvik/smartai-shopping-sub000/pkg/aws"
)

const EventUserOnboarded = "user.onboarded"

var (
	ErrFlowNotFound      = apperrors.New(http.StatusNotFound, "flow not found", nil)
	ErrInvalidTransition = apperrors.New(http.StatusConflict, "action not allowed at this step", nil)
	ErrInvalidEmail      = apperrors.New(http.StatusBadRequest, "invalid email address", nil)
	ErrInvalidRole       = apperrors.New(http.StatusBadRequest, "role must be buyer or seller", nil)
	ErrWeakPassword      = apperrors.New(http.StatusBadRequest, "password does not meet requirements", nil)
	ErrUnknownProvider   = apperrors.New(http.StatusBadRequest, "unsupported identity provider", nil)
	ErrStateMismatch     = apperrors.New(http.StatusBadRequest, "social sign-in state mismatch", nil)
)

var validate = validator.New()

type IFlowStore interface {
	GetFlow(ctx context.Context, flowID string) (*models.OnboardingFlow, error)
	SaveFlow(ctx context.Context, flow *models.OnboardingFlow) error
	DeleteFlow(ctx context.Context, flowID string) error
}

type ISocialProvider interface {
	Supports(provider string) bool
	AuthorizeURL(provider, state, loginHint string) (string, error)
	RedirectURL() string
}

type action string

const (
	actSubmitEmail    action = "submit email"
	actSubmitPassword action = "submit password"
	actRegister       action = "register"
	actBeginSocial    action = "begin social sign-in"
	actCompleteSocial action = "complete social sign-in"
	actSelectRole     action = "select role"
	actSellerProfile  action = "submit seller profile"
)

// allowed lists the actions each step accepts. Restart is accepted from any
// step and is not listed.
var allowed = map[models.Step][]action{
	models.StepEmail:         {actSubmitEmail, actBeginSocial},
	models.StepPassword:      {actSubmitPassword},
	models.StepRegister:      {actRegister, actBeginSocial},
	models.StepSocial:        {actCompleteSocial},
	models.StepRole:          {actSelectRole},
	models.StepSellerProfile: {actSellerProfile},
}

func permits(step models.Step, a action) bool {
	for _, candidate := range allowed[step] {
		if candidate == a {
			return true
		}
	}
	return false
}

// OnboardingService drives the signup/login wizard. Every action loads the
// flow, checks the transition, calls the auth backend and saves the flow
// again. A flow that reaches complete is deleted and returned with its
// tokens so the caller can set session cookies.
type OnboardingService struct {
	store     IFlowStore
	auth      clients.AuthAPI
	social    ISocialProvider
	events    awspkg.SNSPublisher
	topicArn  string
	cw        *awspkg.MetricsClient
	passwords *PasswordPolicy
	logger    *zap.Logger
	now       func() time.Time
}

func NewOnboardingService(store IFlowStore, auth clients.AuthAPI, social ISocialProvider, events awspkg.SNSPublisher, topicArn string, cw *awspkg.MetricsClient, logger *zap.Logger) *OnboardingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OnboardingService{
		store:     store,
		auth:      auth,
		social:    social,
		events:    events,
		topicArn:  topicArn,
		cw:        cw,
		passwords: NewPasswordPolicy(),
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Start opens a new flow at the email step.
func (s *OnboardingService) Start(ctx context.Context) (*models.OnboardingFlow, error) {
	now := s.now()
	flow := &models.OnboardingFlow{
		ID:        uuid.NewString(),
		Step:      models.StepEmail,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.SaveFlow(ctx, flow); err != nil {
		return nil, fmt.Errorf("save onboarding flow: %w", err)
	}
	metrics.RecordOnboardingTransition("new", string(models.StepEmail))
	return flow, nil
}

// Get returns the stored flow or ErrFlowNotFound.
func (s *OnboardingService) Get(ctx context.Context, flowID string) (*models.OnboardingFlow, error) {
	if flowID == "" {
		return nil, ErrFlowNotFound
	}
	flow, err := s.store.GetFlow(ctx, flowID)
	if err != nil {
		return nil, fmt.Errorf("load onboarding flow: %w", err)
	}
	if flow == nil {
		return nil, ErrFlowNotFound
	}
	return flow, nil
}

// Restart drops the current flow, if any, and opens a fresh one.
func (s *OnboardingService) Restart(ctx context.Context, flowID string) (*models.OnboardingFlow, error) {
	if flowID != "" {
		if err := s.store.DeleteFlow(ctx, flowID); err != nil {
			s.logger.Warn("failed to delete onboarding flow on restart", zap.String("flow_id", flowID), zap.Error(err))
		}
	}
	return s.Start(ctx)
}

// View renders the flow for the browser. On the social step it carries the
// provider redirect.
func (s *OnboardingService) View(flow *models.OnboardingFlow) models.OnboardingView {
	v := flow.View()
	if flow.Step == models.StepSocial && flow.State != "" && s.social != nil {
		u, err := s.social.AuthorizeURL(flow.Provider, flow.State, flow.Email)
		if err != nil {
			s.logger.Warn("failed to build authorize url", zap.String("provider", flow.Provider), zap.Error(err))
		} else {
			v.AuthorizeURL = u
		}
	}
	return v
}

func (s *OnboardingService) SubmitEmail(ctx context.Context, flowID, email string) (*models.OnboardingFlow, error) {
	flow, err := s.load(ctx, flowID, actSubmitEmail)
	if err != nil {
		return nil, err
	}

	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	lookup, err := s.auth.CheckEmail(ctx, normalized)
	if err != nil {
		return nil, clients.ToAppError(err)
	}

	flow.Email = normalized
	switch {
	case !lookup.Exists:
		return s.advance(ctx, flow, models.StepRegister)
	case !lookup.HasPassword && lookup.Provider != "":
		if !s.supports(lookup.Provider) {
			return nil, apperrors.Wrap(ErrUnknownProvider, fmt.Errorf("account uses %s", lookup.Provider))
		}
		flow.Provider = strings.ToLower(lookup.Provider)
		flow.State = uuid.NewString()
		return s.advance(ctx, flow, models.StepSocial)
	default:
		return s.advance(ctx, flow, models.StepPassword)
	}
}

func (s *OnboardingService) SubmitPassword(ctx context.Context, flowID, password string) (*models.OnboardingFlow, error) {
	flow, err := s.load(ctx, flowID, actSubmitPassword)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, apperrors.Wrap(apperrors.ErrValidation, fmt.Errorf("password is required"))
	}

	result, err := s.auth.Login(ctx, flow.Email, password)
	if err != nil {
		if clients.IsStatus(err, http.StatusUnauthorized) {
			return nil, apperrors.Wrap(apperrors.ErrInvalidCredentials, err)
		}
		return nil, clients.ToAppError(err)
	}
	return s.authenticated(ctx, flow, result)
}

func (s *OnboardingService) SubmitRegistration(ctx context.Context, flowID, name, password string) (*models.OnboardingFlow, error) {
	flow, err := s.load(ctx, flowID, actRegister)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if err := validate.Var(name, "required,min=2,max=80"); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrValidation, fmt.Errorf("name: %w", err))
	}
	if err := s.passwords.Validate(password); err != nil {
		return nil, apperrors.New(ErrWeakPassword.Code, err.Error(), err)
	}

	result, err := s.auth.Register(ctx, name, flow.Email, password)
	if err != nil {
		return nil, clients.ToAppError(err)
	}

	flow.Name = name
	flow.NewUser = true
	flow.User = &result.User
	flow.Tokens = &result.Tokens
	return s.advance(ctx, flow, models.StepRole)
}

// BeginSocial switches the flow to a provider sign-in and records the state
// value the callback has to echo back.
func (s *OnboardingService) BeginSocial(ctx context.Context, flowID, provider string) (*models.OnboardingFlow, error) {
	flow, err := s.load(ctx, flowID, actBeginSocial)
	if err != nil {
		return nil, err
	}
	if !s.supports(provider) {
		return nil, ErrUnknownProvider
	}

	flow.Provider = strings.ToLower(provider)
	flow.State = uuid.NewString()
	return s.advance(ctx, flow, models.StepSocial)
}

func (s *OnboardingService) CompleteSocial(ctx context.Context, flowID, state, code string) (*models.OnboardingFlow, error) {
	flow, err := s.load(ctx, flowID, actCompleteSocial)
	if err != nil {
		return nil, err
	}
	if state == "" || state != flow.State {
		return nil, ErrStateMismatch
	}
	if code == "" {
		return nil, apperrors.Wrap(apperrors.ErrValidation, fmt.Errorf("authorization code is required"))
	}

	result, err := s.auth.SocialExchange(ctx, flow.Provider, code, s.social.RedirectURL())
	if err != nil {
		return nil, clients.ToAppError(err)
	}
	flow.State = ""
	if flow.Email == "" {
		flow.Email = result.User.Email
	}
	return s.authenticated(ctx, flow, result)
}

func (s *OnboardingService) SelectRole(ctx context.Context, flowID, role string) (*models.OnboardingFlow, error) {
	flow, err := s.load(ctx, flowID, actSelectRole)
	if err != nil {
		return nil, err
	}

	role = strings.ToLower(strings.TrimSpace(role))
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	user, err := s.auth.SetRole(ctx, flow.Tokens.AccessToken, role)
	if err != nil {
		return nil, clients.ToAppError(err)
	}
	flow.User = user
	flow.Role = role

	if role == models.RoleSeller {
		return s.advance(ctx, flow, models.StepSellerProfile)
	}
	return s.advance(ctx, flow, models.StepComplete)
}

func (s *OnboardingService) SubmitSellerProfile(ctx context.Context, flowID string, profile models.SellerProfile) (*models.OnboardingFlow, error) {
	flow, err := s.load(ctx, flowID, actSellerProfile)
	if err != nil {
		return nil, err
	}

	profile.StoreName = strings.TrimSpace(profile.StoreName)
	if err := validate.Var(profile.StoreName, "required,min=2,max=80"); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrValidation, fmt.Errorf("store_name: %w", err))
	}

	if err := s.auth.CreateSellerProfile(ctx, flow.Tokens.AccessToken, profile); err != nil {
		return nil, clients.ToAppError(err)
	}
	return s.advance(ctx, flow, models.StepComplete)
}

// load fetches the flow and rejects actions the current step does not accept.
func (s *OnboardingService) load(ctx context.Context, flowID string, a action) (*models.OnboardingFlow, error) {
	flow, err := s.Get(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if !permits(flow.Step, a) {
		return nil, apperrors.Wrap(ErrInvalidTransition, fmt.Errorf("cannot %s at step %s", a, flow.Step))
	}
	// Tokens are required by every step after authentication.
	if (flow.Step == models.StepRole || flow.Step == models.StepSellerProfile) && flow.Tokens == nil {
		return nil, apperrors.Wrap(ErrInvalidTransition, fmt.Errorf("flow %s has no session", flow.ID))
	}
	return flow, nil
}

func (s *OnboardingService) authenticated(ctx context.Context, flow *models.OnboardingFlow, result *models.AuthResult) (*models.OnboardingFlow, error) {
	flow.User = &result.User
	flow.Tokens = &result.Tokens
	if result.User.HasRole() {
		flow.Role = result.User.Role
		return s.advance(ctx, flow, models.StepComplete)
	}
	return s.advance(ctx, flow, models.StepRole)
}

// advance moves the flow to next and persists it. Reaching complete deletes
// the stored flow instead and announces the new session.
func (s *OnboardingService) advance(ctx context.Context, flow *models.OnboardingFlow, next models.Step) (*models.OnboardingFlow, error) {
	from := flow.Step
	flow.Step = next
	flow.UpdatedAt = s.now()

	if next == models.StepComplete {
		if err := s.store.DeleteFlow(ctx, flow.ID); err != nil {
			s.logger.Warn("failed to delete completed onboarding flow", zap.String("flow_id", flow.ID), zap.Error(err))
		}
		s.completed(ctx, flow)
	} else if err := s.store.SaveFlow(ctx, flow); err != nil {
		flow.Step = from
		return nil, fmt.Errorf("save onboarding flow: %w", err)
	}

	metrics.RecordOnboardingTransition(string(from), string(next))
	s.logger.Info("onboarding transition",
		zap.String("flow_id", flow.ID),
		zap.String("from", string(from)),
		zap.String("to", string(next)),
	)
	return flow, nil
}

func (s *OnboardingService) completed(ctx context.Context, flow *models.OnboardingFlow) {
	var userID string
	if flow.User != nil {
		userID = flow.User.ID
	}
	payload := map[string]interface{}{
		"user_id":  userID,
		"email":    flow.Email,
		"role":     flow.Role,
		"new_user": flow.NewUser,
		"provider": flow.Provider,
	}
	if err := awspkg.PublishEvent(ctx, s.events, s.topicArn, EventUserOnboarded, payload); err != nil {
		s.logger.Warn("failed to publish onboarding event", zap.String("flow_id", flow.ID), zap.Error(err))
	}
	_ = s.cw.RecordCount(ctx, awspkg.MetricOnboardingCompleted, map[string]string{"Role": flow.Role})
}

func (s *OnboardingService) supports(provider string) bool {
	return s.social != nil && s.social.Supports(provider)
}

// NormalizeEmail trims and lower-cases an address and checks that it parses.
func NormalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if err := validate.Var(normalized, "email"); err != nil {
		return "", apperrors.Wrap(ErrInvalidEmail, err)
	}
	return normalized, nil
}
