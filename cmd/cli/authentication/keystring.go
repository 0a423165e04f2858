package authentication

// keystring.go keeps the CLI's access token in the OS keyring.
import (
	"errors"

	"github.com/goccy/go-json"
	"github.com/zalando/go-keyring"
)

const (
	serviceName = "yamdb-cli"
	tokenKey    = "auth_token"
)

// ErrNotLoggedIn is returned when no token has been stored yet.
var ErrNotLoggedIn = errors.New("not logged in, run `yamdb auth token` first")

type StoredCredentials struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
}

func StoreToken(creds *StoredCredentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return keyring.Set(serviceName, tokenKey, string(data))
}

func GetToken() (*StoredCredentials, error) {
	value, err := keyring.Get(serviceName, tokenKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, err
	}

	var creds StoredCredentials
	if err := json.Unmarshal([]byte(value), &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

func DeleteToken() error {
	err := keyring.Delete(serviceName, tokenKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
