package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/webapp-template/auth-service/internal/dto"
)

func (s *Suite) signUp(email, password, name string) *dto.AuthResponse {
	reqBody := dto.SignUpRequest{
		Email:    email,
		Password: password,
		Name:     name,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(s.BaseURL+"/auth/signup", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode, "Signup should succeed")

	var authResp dto.AuthResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&authResp))
	return &authResp
}

func (s *Suite) TestSignUp_Success() {
	reqBody := dto.SignUpRequest{
		Email:    "test@example.com",
		Password: "password123",
		Name:     "Test User",
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(s.BaseURL+"/auth/signup", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusCreated, resp.StatusCode)

	var authResp dto.AuthResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&authResp))

	s.NotEmpty(authResp.AccessToken)
	s.Equal("Bearer", authResp.TokenType)
	s.NotZero(authResp.ExpiresIn)
	s.Equal("test@example.com", authResp.User.Email)
	s.Equal("USER", authResp.User.Role)
	s.NotEmpty(authResp.User.ID)

	s.NotEmpty(resp.Cookies(), "Should have session cookie")
}

func (s *Suite) TestSignUp_DuplicateEmail() {
	s.signUp("duplicate@example.com", "password123", "First")

	reqBody := dto.SignUpRequest{
		Email:    "duplicate@example.com",
		Password: "password456",
		Name:     "Second",
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(s.BaseURL+"/auth/signup", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusConflict, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("Conflict", errResp.Error)
}

func (s *Suite) TestSignUp_InvalidEmail() {
	reqBody := dto.SignUpRequest{
		Email:    "invalid-email",
		Password: "password123",
		Name:     "Test",
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(s.BaseURL+"/auth/signup", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestSignUp_ShortPassword() {
	reqBody := dto.SignUpRequest{
		Email:    "test@example.com",
		Password: "short",
		Name:     "Test",
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(s.BaseURL+"/auth/signup", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestLogin_Success() {
	s.signUp("login@example.com", "password123", "Login User")

	loginReq := dto.LoginRequest{
		Email:    "login@example.com",
		Password: "password123",
	}
	body, _ := json.Marshal(loginReq)

	resp, err := http.Post(s.BaseURL+"/auth/login", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var authResp dto.AuthResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&authResp))

	s.NotEmpty(authResp.AccessToken)
	s.Equal("Bearer", authResp.TokenType)
	s.Equal("login@example.com", authResp.User.Email)
	s.NotEmpty(resp.Cookies(), "Should have session cookie")
}

func (s *Suite) TestLogin_UnknownEmailAndWrongPassword() {
	s.signUp("known@example.com", "correct-password", "Known User")

	// Unknown account and wrong password must be indistinguishable.
	cases := []dto.LoginRequest{
		{Email: "unknown@example.com", Password: "whatever123"},
		{Email: "known@example.com", Password: "wrong-password"},
	}

	var bodies []dto.ErrorResponse
	for _, loginReq := range cases {
		body, _ := json.Marshal(loginReq)
		resp, err := http.Post(s.BaseURL+"/auth/login", "application/json", bytes.NewBuffer(body))
		s.Require().NoError(err)

		s.Equal(http.StatusUnauthorized, resp.StatusCode)

		var errResp dto.ErrorResponse
		json.NewDecoder(resp.Body).Decode(&errResp)
		resp.Body.Close()
		bodies = append(bodies, errResp)
	}

	s.Equal(bodies[0], bodies[1])
}

func (s *Suite) TestLogin_PasswordlessAccount() {
	// Accounts created through magic links have no password at all.
	s.requestMagicLink("nopassword@example.com")

	loginReq := dto.LoginRequest{
		Email:    "nopassword@example.com",
		Password: "any-password-123",
	}
	body, _ := json.Marshal(loginReq)

	resp, err := http.Post(s.BaseURL+"/auth/login", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestProfile_Success() {
	authResp := s.signUp("profile@example.com", "password123", "Profile User")

	req, _ := http.NewRequest("GET", s.BaseURL+"/auth/profile", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", authResp.AccessToken))

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var userResp dto.UserResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&userResp))

	s.Equal(authResp.User.ID, userResp.ID)
	s.Equal("profile@example.com", userResp.Email)
	s.Require().NotNil(userResp.Name)
	s.Equal("Profile User", *userResp.Name)
	s.Equal("USER", userResp.Role)
	s.NotEmpty(userResp.CreatedAt)
}

func (s *Suite) TestProfile_NoToken() {
	req, _ := http.NewRequest("GET", s.BaseURL+"/auth/profile", nil)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestProfile_InvalidToken() {
	req, _ := http.NewRequest("GET", s.BaseURL+"/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestProfile_SessionCookie() {
	authResp := s.signUp("cookieauth@example.com", "password123", "Cookie User")

	req, _ := http.NewRequest("GET", s.BaseURL+"/auth/profile", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: authResp.AccessToken})

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *Suite) TestLogout_Success() {
	authResp := s.signUp("logout@example.com", "password123", "Logout User")

	req, _ := http.NewRequest("POST", s.BaseURL+"/auth/logout", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", authResp.AccessToken))

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var cleared bool
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "jwt" && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	s.True(cleared, "Session cookie should be cleared")

	// The token itself stays valid until expiry.
	req2, _ := http.NewRequest("GET", s.BaseURL+"/auth/profile", nil)
	req2.Header.Set("Authorization", fmt.Sprintf("Bearer %s", authResp.AccessToken))
	resp2, err := http.DefaultClient.Do(req2)
	s.Require().NoError(err)
	defer resp2.Body.Close()
	s.Equal(http.StatusOK, resp2.StatusCode)
}

func (s *Suite) TestAdmin_ForbiddenForRegularUser() {
	authResp := s.signUp("regular@example.com", "password123", "Regular User")

	req, _ := http.NewRequest("GET", s.BaseURL+"/auth/admin", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", authResp.AccessToken))

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *Suite) TestAdmin_AllowedForAdmin() {
	authResp := s.signUp("admin@example.com", "password123", "Admin User")
	s.promoteToAdmin("admin@example.com")

	req, _ := http.NewRequest("GET", s.BaseURL+"/auth/admin", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", authResp.AccessToken))

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *Suite) promoteToAdmin(email string) {
	_, err := s.Postgres.DB.Exec(`UPDATE users SET role = 'ADMIN' WHERE email = $1`, email)
	s.Require().NoError(err)
}
