package models

import "time"

// Step names one screen of the signup/login wizard.
type Step string

const (
	StepEmail         Step = "email"
	StepPassword      Step = "password"
	StepRegister      Step = "register"
	StepSocial        Step = "social"
	StepRole          Step = "role"
	StepSellerProfile Step = "seller_profile"
	StepComplete      Step = "complete"
)

// OnboardingFlow is the wizard state kept in Redis between requests. It never
// holds a password. Tokens are only kept between the auth step and the role
// step, and the flow is deleted once it completes.
type OnboardingFlow struct {
	ID        string     `json:"id"`
	Step      Step       `json:"step"`
	Email     string     `json:"email,omitempty"`
	Name      string     `json:"name,omitempty"`
	Provider  string     `json:"provider,omitempty"`
	State     string     `json:"state,omitempty"`
	NewUser   bool       `json:"new_user"`
	User      *User      `json:"user,omitempty"`
	Tokens    *TokenPair `json:"tokens,omitempty"`
	Role      string     `json:"role,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// OnboardingView is the part of the flow the browser gets to see.
type OnboardingView struct {
	FlowID       string `json:"flow_id"`
	Step         Step   `json:"step"`
	Email        string `json:"email,omitempty"`
	Provider     string `json:"provider,omitempty"`
	AuthorizeURL string `json:"authorize_url,omitempty"`
	Role         string `json:"role,omitempty"`
	User         *User  `json:"user,omitempty"`
}

func (f *OnboardingFlow) View() OnboardingView {
	v := OnboardingView{
		FlowID:   f.ID,
		Step:     f.Step,
		Email:    f.Email,
		Provider: f.Provider,
		Role:     f.Role,
	}
	if f.Step == StepComplete {
		v.User = f.User
	}
	return v
}
