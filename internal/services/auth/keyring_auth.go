package auth

import (
	"errors"

	"github.com/zalando/go-keyring"
)

// KeyringStore persists tokens in the OS keychain under one service name.
type KeyringStore struct {
	serviceName string
}

func NewKeyringStore(serviceName string) *KeyringStore {
	if serviceName == "" {
		serviceName = ServiceName
	}
	return &KeyringStore{serviceName: serviceName}
}

func (k *KeyringStore) SetToken(cloud string, token string) error {
	return keyring.Set(k.serviceName, NormalizeCloud(cloud), token)
}

func (k *KeyringStore) GetToken(cloud string) (string, error) {
	token, err := keyring.Get(k.serviceName, NormalizeCloud(cloud))
	if err == nil {
		return token, nil
	}
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrTokenNotFound
	}
	return "", err
}

func (k *KeyringStore) DeleteToken(cloud string) error {
	err := keyring.Delete(k.serviceName, NormalizeCloud(cloud))
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrTokenNotFound
	}
	return err
}
