package api

// UserType classifies a LogiScore account.
type UserType string

const (
	// UserTypeShipper is a buyer-side account reviewing freight forwarders.
	UserTypeShipper UserType = "shipper"
	// UserTypeForwarder is a freight-forwarder account being reviewed.
	UserTypeForwarder UserType = "forwarder"
	// UserTypeAdmin is a LogiScore staff account.
	UserTypeAdmin UserType = "admin"
)

// User is the account record returned by the backend. It is replaced
// wholesale on login and refresh, never field-patched.
type User struct {
	ID               string   `json:"id"`
	Username         string   `json:"username"`
	FullName         string   `json:"full_name"`
	Email            string   `json:"email"`
	CompanyName      string   `json:"company_name"`
	UserType         UserType `json:"user_type"`
	SubscriptionTier string   `json:"subscription_tier"`
	IsVerified       bool     `json:"is_verified"`
	IsActive         bool     `json:"is_active"`
}

// AuthResponse is the common success shape of every sign-in, sign-up, and
// OAuth-callback endpoint.
type AuthResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// CodeResponse acknowledges a one-time email verification code request.
type CodeResponse struct {
	Message   string `json:"message"`
	ExpiresIn int    `json:"expires_in,omitempty"`
}

// SignupRequest is the input for the legacy password-based sign-up endpoint.
type SignupRequest struct {
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	FullName    string   `json:"full_name"`
	CompanyName string   `json:"company_name,omitempty"`
	UserType    UserType `json:"user_type,omitempty"`
}

// VerifySignupRequest exchanges an emailed one-time code for a session,
// creating the account in the same call.
type VerifySignupRequest struct {
	Email       string   `json:"email"`
	Code        string   `json:"code"`
	FullName    string   `json:"full_name,omitempty"`
	CompanyName string   `json:"company_name,omitempty"`
	UserType    UserType `json:"user_type,omitempty"`
}

type verifySigninRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type sendSigninCodeRequest struct {
	Email string `json:"email"`
}

type sendSignupCodeRequest struct {
	Email       string   `json:"email"`
	UserType    UserType `json:"user_type,omitempty"`
	CompanyName string   `json:"company_name,omitempty"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type githubCallbackRequest struct {
	Code string `json:"code"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}
