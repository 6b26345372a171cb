package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"firebase.google.com/go/v4/auth"
)

// Session is the identity snapshot the rest of the system consumes: a
// stable user id plus the display fields the identity provider holds.
type Session struct {
	UID         string
	DisplayName string
	Email       string
	PhotoURL    string
}

type FirebaseAuthClient struct {
	client *auth.Client
	apiKey string
}

func NewFirebaseAuthClient(client *auth.Client, apiKey string) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client: client,
		apiKey: apiKey,
	}
}

func (f *FirebaseAuthClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	user, err := f.client.CreateUser(ctx, params)
	if err != nil {
		return "", err
	}

	return user.UID, nil
}

func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", err
	}

	return result.UID, nil
}

// CurrentSession resolves the identity record behind a verified uid.
func (f *FirebaseAuthClient) CurrentSession(ctx context.Context, uid string) (*Session, error) {
	record, err := f.client.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	return &Session{
		UID:         record.UID,
		DisplayName: record.DisplayName,
		Email:       record.Email,
		PhotoURL:    record.PhotoURL,
	}, nil
}

// SignOut invalidates every refresh token issued to the user. Outstanding
// ID tokens stay valid until they expire; that is the provider's contract.
func (f *FirebaseAuthClient) SignOut(ctx context.Context, uid string) error {
	return f.client.RevokeRefreshTokens(ctx, uid)
}

func (f *FirebaseAuthClient) SignInWithEmailPassword(email, password string) (string, error) {
	payload := map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}

	url := fmt.Sprintf("https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword?key=%s", f.apiKey)
	return f.postIdentityToolkit(url, payload)
}

func (f *FirebaseAuthClient) GenerateToken(ctx context.Context, uid string) (string, error) {
	customToken, err := f.client.CustomToken(ctx, uid)
	if err != nil {
		return "", err
	}

	if f.apiKey != "" {
		return f.exchangeCustomTokenForIDToken(customToken)
	}

	return customToken, nil
}

func (f *FirebaseAuthClient) exchangeCustomTokenForIDToken(customToken string) (string, error) {
	payload := map[string]interface{}{
		"token":             customToken,
		"returnSecureToken": true,
	}

	url := fmt.Sprintf("https://identitytoolkit.googleapis.com/v1/accounts:signInWithCustomToken?key=%s", f.apiKey)
	return f.postIdentityToolkit(url, payload)
}

func (f *FirebaseAuthClient) postIdentityToolkit(url string, payload map[string]interface{}) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		return "", fmt.Errorf("identity toolkit request failed: %s", errResp.Error.Message)
	}

	var result struct {
		IDToken string `json:"idToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	return result.IDToken, nil
}
