package acceptance

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/webapp-template/auth-service/internal/dto"
)

func (s *Suite) requestMagicLink(email string) {
	reqBody := dto.MagicLinkRequest{Email: email}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(s.BaseURL+"/auth/magic-link/request", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Require().Equal(http.StatusOK, resp.StatusCode)
}

// latestMagicLinkToken reads the issued token straight from storage; the
// mailer is disabled in the test environment.
func (s *Suite) latestMagicLinkToken(email string) string {
	var token string
	err := s.Postgres.DB.QueryRow(`
		SELECT ml.token
		FROM magic_links ml
		JOIN users u ON u.id = ml.user_id
		WHERE u.email = $1
		ORDER BY ml.id DESC
		LIMIT 1
	`, email).Scan(&token)
	s.Require().NoError(err)
	return token
}

func (s *Suite) verifyMagicLink(email, token string) *http.Response {
	reqBody := dto.VerifyMagicLinkRequest{Email: email, Token: token}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(s.BaseURL+"/auth/magic-link/verify", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	return resp
}

func (s *Suite) TestMagicLink_RequestIsUniform() {
	// Same response whether the account exists or not.
	s.signUp("existing@example.com", "password123", "Existing")

	for _, email := range []string{"existing@example.com", "brand-new@example.com"} {
		reqBody := dto.MagicLinkRequest{Email: email}
		body, _ := json.Marshal(reqBody)

		resp, err := http.Post(s.BaseURL+"/auth/magic-link/request", "application/json", bytes.NewBuffer(body))
		s.Require().NoError(err)

		s.Equal(http.StatusOK, resp.StatusCode)

		var successResp dto.SuccessResponse
		json.NewDecoder(resp.Body).Decode(&successResp)
		resp.Body.Close()
		s.Equal("If an account with this email exists, a magic link has been sent.", successResp.Message)
	}
}

func (s *Suite) TestMagicLink_CreatesAccountOnFirstRequest() {
	s.requestMagicLink("firsttime@example.com")

	var count int
	err := s.Postgres.DB.QueryRow(`SELECT COUNT(*) FROM users WHERE email = $1`, "firsttime@example.com").Scan(&count)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *Suite) TestMagicLink_VerifySuccess() {
	s.requestMagicLink("magic@example.com")
	token := s.latestMagicLinkToken("magic@example.com")
	s.Len(token, 64)

	resp := s.verifyMagicLink("magic@example.com", token)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var authResp dto.AuthResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&authResp))

	s.NotEmpty(authResp.AccessToken)
	s.Equal("magic@example.com", authResp.User.Email)
	s.NotEmpty(resp.Cookies(), "Should have session cookie")
}

func (s *Suite) TestMagicLink_SingleUse() {
	s.requestMagicLink("singleuse@example.com")
	token := s.latestMagicLinkToken("singleuse@example.com")

	resp1 := s.verifyMagicLink("singleuse@example.com", token)
	resp1.Body.Close()
	s.Equal(http.StatusOK, resp1.StatusCode)

	resp2 := s.verifyMagicLink("singleuse@example.com", token)
	defer resp2.Body.Close()
	s.Equal(http.StatusUnauthorized, resp2.StatusCode)
}

func (s *Suite) TestMagicLink_WrongEmailDoesNotConsume() {
	s.requestMagicLink("owner@example.com")
	token := s.latestMagicLinkToken("owner@example.com")

	resp := s.verifyMagicLink("intruder@example.com", token)
	resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	// The real owner can still redeem it.
	resp2 := s.verifyMagicLink("owner@example.com", token)
	defer resp2.Body.Close()
	s.Equal(http.StatusOK, resp2.StatusCode)
}

func (s *Suite) TestMagicLink_UnknownToken() {
	resp := s.verifyMagicLink("anyone@example.com", "0000000000000000000000000000000000000000000000000000000000000000")
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("Invalid or expired magic link.", errResp.Message)
}

func (s *Suite) TestMagicLink_ExpiredToken() {
	s.requestMagicLink("expired@example.com")
	token := s.latestMagicLinkToken("expired@example.com")

	_, err := s.Postgres.DB.Exec(`UPDATE magic_links SET expires_at = now() - interval '1 minute' WHERE token = $1`, token)
	s.Require().NoError(err)

	resp := s.verifyMagicLink("expired@example.com", token)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	// Expired and unknown tokens are indistinguishable.
	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("Invalid or expired magic link.", errResp.Message)
}

func (s *Suite) TestMagicLink_RepeatRequestsKeepOldLinksValid() {
	s.requestMagicLink("multi@example.com")
	first := s.latestMagicLinkToken("multi@example.com")

	s.requestMagicLink("multi@example.com")
	second := s.latestMagicLinkToken("multi@example.com")
	s.NotEqual(first, second)

	resp := s.verifyMagicLink("multi@example.com", first)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}
