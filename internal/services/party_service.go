package services

import (
	"context"
	"strings"

	"branchdesk-backend/internal/auth"
	"branchdesk-backend/internal/models"
)

type partyStore interface {
	Create(ctx context.Context, p *models.Party) error
	Get(ctx context.Context, id int) (*models.Party, error)
	List(ctx context.Context, branchID int, search string) ([]*models.Party, error)
	Update(ctx context.Context, p *models.Party) error
	Delete(ctx context.Context, id int) error
}

type PartyService struct {
	Repo partyStore
}

func NewPartyService(repo partyStore) *PartyService {
	return &PartyService{Repo: repo}
}

// ListParties returns the branch's parties, optionally filtered by a name fragment
func (s *PartyService) ListParties(ctx context.Context, id auth.Identity, search string) ([]*models.Party, error) {
	return s.Repo.List(ctx, branchScope(id), strings.TrimSpace(search))
}

func (s *PartyService) GetParty(ctx context.Context, id auth.Identity, partyID int) (*models.Party, error) {
	p, err := s.Repo.Get(ctx, partyID)
	if err != nil {
		return nil, err
	}
	if err := checkBranch(id, p.BranchID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PartyService) CreateParty(ctx context.Context, id auth.Identity, req *models.PartyRequest) (*models.Party, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	p := &models.Party{
		BranchID: id.BranchID,
		Name:     req.Name,
		Contact:  req.Contact,
		Address:  req.Address,
		GSTIN:    strings.ToUpper(req.GSTIN),
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PartyService) UpdateParty(ctx context.Context, id auth.Identity, partyID int, req *models.PartyRequest) (*models.Party, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	p, err := s.GetParty(ctx, id, partyID)
	if err != nil {
		return nil, err
	}
	p.Name = req.Name
	p.Contact = req.Contact
	p.Address = req.Address
	p.GSTIN = strings.ToUpper(req.GSTIN)
	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PartyService) DeleteParty(ctx context.Context, id auth.Identity, partyID int) error {
	if _, err := s.GetParty(ctx, id, partyID); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, partyID)
}
