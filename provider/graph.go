package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	graphGroupType        = "#microsoft.graph.group"
	graphDirectoryRoleTyp = "#microsoft.graph.directoryRole"
)

// graphClient fetches profile and membership claims from Microsoft Graph.
// Graph uses plain OAuth2 bearer calls, so each claim set is a separate
// API request against the user's access token.
type graphClient struct {
	baseURL string
	http    *http.Client
}

func newGraphClient(baseURL string) *graphClient {
	return &graphClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// profileResponse mirrors the Graph /me payload fields we consume.
type profileResponse struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
}

// EmailAddress returns the user's mail attribute, falling back to the
// userPrincipalName when mail is unset.
func (p profileResponse) EmailAddress() string {
	if p.Mail != "" {
		return p.Mail
	}
	return p.UserPrincipalName
}

// Profile fetches the signed-in user's profile from /me.
func (g *graphClient) Profile(ctx context.Context, accessToken string) (*profileResponse, error) {
	var profile profileResponse
	if err := g.getJSON(ctx, "/me", accessToken, &profile); err != nil {
		return nil, err
	}
	if profile.ID == "" {
		return nil, fmt.Errorf("graph profile missing id")
	}
	return &profile, nil
}

type directoryObject struct {
	ODataType   string `json:"@odata.type"`
	DisplayName string `json:"displayName"`
}

type memberOfResponse struct {
	Value []directoryObject `json:"value"`
}

// Memberships fetches /me/memberOf and splits the result into security
// group names and directory role names.
func (g *graphClient) Memberships(ctx context.Context, accessToken string) (groups, roles []string, err error) {
	var resp memberOfResponse
	if err := g.getJSON(ctx, "/me/memberOf", accessToken, &resp); err != nil {
		return nil, nil, err
	}

	for _, obj := range resp.Value {
		if obj.DisplayName == "" {
			continue
		}
		switch obj.ODataType {
		case graphGroupType:
			groups = append(groups, obj.DisplayName)
		case graphDirectoryRoleTyp:
			roles = append(roles, obj.DisplayName)
		}
	}
	return groups, roles, nil
}

// getJSON performs a bearer-authorized GET with one retry on transient
// (network or 5xx) failures.
func (g *graphClient) getJSON(ctx context.Context, path, accessToken string, out any) error {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		retry, err := g.doGet(ctx, path, accessToken, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry {
			return err
		}
	}
	return lastErr
}

func (g *graphClient) doGet(ctx context.Context, path, accessToken string, out any) (retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return true, fmt.Errorf("graph api error: status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("graph api error: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("failed to decode graph response: %w", err)
	}
	return false, nil
}
