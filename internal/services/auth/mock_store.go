package auth

// MockStore is an in-memory auth store for testing.
type MockStore struct {
	tokens map[string]string
}

func NewMockStore() *MockStore {
	return &MockStore{tokens: make(map[string]string)}
}

func (m *MockStore) SetToken(cloud string, token string) error {
	m.tokens[cloud] = token
	return nil
}

func (m *MockStore) GetToken(cloud string) (string, error) {
	token, ok := m.tokens[cloud]
	if !ok {
		return "", ErrTokenNotFound
	}
	return token, nil
}

func (m *MockStore) DeleteToken(cloud string) error {
	if _, ok := m.tokens[cloud]; !ok {
		return ErrTokenNotFound
	}
	delete(m.tokens, cloud)
	return nil
}
