package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/prestaledger/lending-service/internal/domain"
)

type ClientService struct {
	clientRepo domain.ClientRepository
	logger     *zap.Logger
}

func NewClientService(clientRepo domain.ClientRepository, logger *zap.Logger) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		logger:     logger,
	}
}

func (s *ClientService) CreateClient(ctx context.Context, name, nationalID, phone string) (*domain.Client, error) {
	client, err := domain.NewClient(name, nationalID, phone)
	if err != nil {
		return nil, err
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s.logger.Info("client created",
		zap.String("client_id", client.ID),
		zap.String("name", client.Name),
	)
	return client, nil
}

func (s *ClientService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

func (s *ClientService) SearchClients(ctx context.Context, query string) ([]*domain.Client, error) {
	clients, err := s.clientRepo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search clients: %w", err)
	}
	return clients, nil
}

func (s *ClientService) UpdateClient(ctx context.Context, id, name, nationalID, phone string) (*domain.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	if name != "" {
		client.Name = name
	}
	if nationalID != "" {
		client.NationalID = nationalID
	}
	if phone != "" {
		client.Phone = phone
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return client, nil
}

// DeleteClient removes the client together with every loan, payment and
// charge hanging off it.
func (s *ClientService) DeleteClient(ctx context.Context, id string) error {
	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	s.logger.Info("client deleted", zap.String("client_id", id))
	return nil
}

// Login authenticates a client by name and 4-digit PIN. A wrong PIN and an
// unknown name both come back as ErrInvalidCredentials so the endpoint cannot
// be used to probe which clients exist.
func (s *ClientService) Login(ctx context.Context, name, pin string) (*domain.Client, error) {
	client, err := s.clientRepo.FindByName(ctx, name)
	if err != nil {
		s.logger.Info("login failed, unknown client", zap.String("name", name))
		return nil, domain.ErrInvalidCredentials
	}

	if !client.VerifyPIN(pin) {
		s.logger.Info("login failed, wrong pin", zap.String("client_id", client.ID))
		return nil, domain.ErrInvalidCredentials
	}
	return client, nil
}
