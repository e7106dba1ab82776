package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/webapp-template/auth-service/internal/domain"
	"github.com/webapp-template/auth-service/internal/dto"
)

func (s *Suite) joinWaitlist(email string) *http.Response {
	reqBody := dto.WaitlistRequest{Email: email}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(s.BaseURL+"/waitlist", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	return resp
}

func (s *Suite) TestWaitlist_Join() {
	resp := s.joinWaitlist("eager@example.com")
	defer resp.Body.Close()

	s.Equal(http.StatusCreated, resp.StatusCode)
}

func (s *Suite) TestWaitlist_DuplicateEmail() {
	resp1 := s.joinWaitlist("eager@example.com")
	resp1.Body.Close()

	resp2 := s.joinWaitlist("eager@example.com")
	defer resp2.Body.Close()

	s.Equal(http.StatusConflict, resp2.StatusCode)
}

func (s *Suite) TestWaitlist_ListRequiresAdmin() {
	authResp := s.signUp("nonadmin@example.com", "password123", "Non Admin")

	req, _ := http.NewRequest("GET", s.BaseURL+"/waitlist", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", authResp.AccessToken))

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *Suite) TestWaitlist_ListAsAdmin() {
	resp := s.joinWaitlist("listed@example.com")
	resp.Body.Close()

	authResp := s.signUp("listadmin@example.com", "password123", "List Admin")
	s.promoteToAdmin("listadmin@example.com")

	req, _ := http.NewRequest("GET", s.BaseURL+"/waitlist", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", authResp.AccessToken))

	listResp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer listResp.Body.Close()

	s.Equal(http.StatusOK, listResp.StatusCode)

	var entries []domain.WaitlistEntry
	s.Require().NoError(json.NewDecoder(listResp.Body).Decode(&entries))
	s.Require().Len(entries, 1)
	s.Equal("listed@example.com", entries[0].Email)
}
