package models

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)

// User is the account record returned by the auth backend.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"`
	Verified bool   `json:"is_verified,omitempty"`
}

// HasRole reports whether the user already picked buyer or seller.
func (u *User) HasRole() bool {
	return u != nil && ValidRole(u.Role)
}

func ValidRole(role string) bool {
	return role == RoleBuyer || role == RoleSeller
}

// TokenPair is what the auth backend hands out after a successful login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResult is the auth backend's answer to login, register and social
// exchange calls.
type AuthResult struct {
	User   User      `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

// EmailLookup is the auth backend's answer to "does this email exist".
type EmailLookup struct {
	Exists      bool   `json:"exists"`
	HasPassword bool   `json:"has_password"`
	Provider    string `json:"provider,omitempty"`
}

// SellerProfile is collected on the last step of seller onboarding.
type SellerProfile struct {
	StoreName   string `json:"store_name" binding:"required,min=2,max=80"`
	Description string `json:"description,omitempty" binding:"max=500"`
	Phone       string `json:"phone,omitempty" binding:"omitempty,e164"`
	Country     string `json:"country,omitempty" binding:"omitempty,iso3166_1_alpha2"`
}
