package firebase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	domain "github.com/mohammadpnp/account-import/internal/domain/account"
)

const usersCollection = "users"

// ProfileStore writes users/{uid} documents through the Firestore commit
// endpoint. createdAt is filled with the request time by the server.
type ProfileStore struct {
	client    *http.Client
	baseURL   string
	projectID string
	apiKey    string
}

func NewProfileStore(client *http.Client, baseURL, projectID, apiKey string) *ProfileStore {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultFirestoreURL
	}
	return &ProfileStore{
		client:    client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		projectID: projectID,
		apiKey:    apiKey,
	}
}

type stringValue struct {
	StringValue string `json:"stringValue"`
}

type document struct {
	Name   string                 `json:"name"`
	Fields map[string]stringValue `json:"fields"`
}

type fieldTransform struct {
	FieldPath        string `json:"fieldPath"`
	SetToServerValue string `json:"setToServerValue"`
}

type write struct {
	Update           document         `json:"update"`
	UpdateTransforms []fieldTransform `json:"updateTransforms"`
}

type commitRequest struct {
	Writes []write `json:"writes"`
}

func (s *ProfileStore) PutProfile(ctx context.Context, profile domain.Profile) error {
	body := commitRequest{Writes: []write{{
		Update: document{
			Name: s.documentsRoot() + "/" + usersCollection + "/" + profile.UserID,
			Fields: map[string]stringValue{
				"email":  {StringValue: profile.Email},
				"userID": {StringValue: profile.UserID},
			},
		},
		UpdateTransforms: []fieldTransform{{FieldPath: "createdAt", SetToServerValue: "REQUEST_TIME"}},
	}}}

	endpoint := s.baseURL + "/v1/" + s.documentsRoot() + ":commit"
	if s.apiKey != "" {
		endpoint += "?key=" + url.QueryEscape(s.apiKey)
	}

	if err := postJSON(ctx, s.client, endpoint, body, nil); err != nil {
		return fmt.Errorf("commit profile %s: %w", profile.UserID, err)
	}
	return nil
}

func (s *ProfileStore) documentsRoot() string {
	return "projects/" + s.projectID + "/databases/(default)/documents"
}
