package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/prestaledger/lending-service/internal/domain"
)

func TestCreateClient(t *testing.T) {
	clients := new(MockClientRepository)
	svc := NewClientService(clients, zap.NewNop())

	clients.On("Create", mock.Anything, mock.AnythingOfType("*domain.Client")).Return(nil)

	client, err := svc.CreateClient(context.Background(), "Ana Perez", "001-123", "555-0101")

	assert.NoError(t, err)
	assert.NotEmpty(t, client.ID)
	assert.Len(t, client.PIN, 4)
	clients.AssertExpectations(t)
}

func TestCreateClientRequiresName(t *testing.T) {
	clients := new(MockClientRepository)
	svc := NewClientService(clients, zap.NewNop())

	_, err := svc.CreateClient(context.Background(), "", "001-123", "555-0101")

	assert.ErrorIs(t, err, domain.ErrInvalidClientName)
	clients.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateClientKeepsUnsetFields(t *testing.T) {
	clients := new(MockClientRepository)
	svc := NewClientService(clients, zap.NewNop())

	existing := &domain.Client{ID: "client-1", Name: "Ana", NationalID: "001-123", Phone: "555-0101"}
	clients.On("FindByID", mock.Anything, "client-1").Return(existing, nil)
	clients.On("Update", mock.Anything, mock.AnythingOfType("*domain.Client")).Return(nil)

	client, err := svc.UpdateClient(context.Background(), "client-1", "Ana Perez", "", "")

	assert.NoError(t, err)
	assert.Equal(t, "Ana Perez", client.Name)
	assert.Equal(t, "001-123", client.NationalID)
	assert.Equal(t, "555-0101", client.Phone)
}

func TestLogin(t *testing.T) {
	clients := new(MockClientRepository)
	svc := NewClientService(clients, zap.NewNop())

	clients.On("FindByName", mock.Anything, "Ana Perez").Return(&domain.Client{ID: "client-1", Name: "Ana Perez", PIN: "4821"}, nil)

	client, err := svc.Login(context.Background(), "Ana Perez", "4821")

	assert.NoError(t, err)
	assert.Equal(t, "client-1", client.ID)
}

func TestLoginWrongPIN(t *testing.T) {
	clients := new(MockClientRepository)
	svc := NewClientService(clients, zap.NewNop())

	clients.On("FindByName", mock.Anything, "Ana Perez").Return(&domain.Client{ID: "client-1", Name: "Ana Perez", PIN: "4821"}, nil)

	_, err := svc.Login(context.Background(), "Ana Perez", "0000")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginUnknownClient(t *testing.T) {
	clients := new(MockClientRepository)
	svc := NewClientService(clients, zap.NewNop())

	clients.On("FindByName", mock.Anything, "ghost").Return(nil, assert.AnError)

	_, err := svc.Login(context.Background(), "ghost", "1234")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
