package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rudrasish2003/Xenon-Backend/models"
	"github.com/rudrasish2003/Xenon-Backend/repositories"
	"github.com/rudrasish2003/Xenon-Backend/storage"
)

var (
	ErrPlayerCreationFailed = errors.New("failed to create player")
	ErrPlayerUpdateFailed   = errors.New("failed to update player")
	ErrPlayerDeleteFailed   = errors.New("failed to delete player")
	ErrPhotoUploadFailed    = errors.New("failed to upload player photo")
)

type PlayerService interface {
	CreatePlayer(ctx context.Context, input CreatePlayerInput) (*models.PlayerView, error)
	GetPlayer(ctx context.Context, id string) (*models.PlayerView, error)
	ListPlayers(ctx context.Context) ([]models.PlayerView, error)
	UpdatePlayer(ctx context.Context, id string, input UpdatePlayerInput) (*models.PlayerView, error)
	DeletePlayer(ctx context.Context, id string) error
	UploadPhoto(ctx context.Context, id string, contentType string, photo io.Reader) (*models.PlayerView, error)
	GetPhotoURL(ctx context.Context, id string) (string, error)
}

type CreatePlayerInput struct {
	Name          string `json:"name"`
	DOB           string `json:"dob"`
	InstagramLink string `json:"instagram_link"`
	FacebookLink  string `json:"facebook_link"`
}

// UpdatePlayerInput carries profile fields only; counters are never editable here.
type UpdatePlayerInput struct {
	Name          *string `json:"name"`
	DOB           *string `json:"dob"`
	InstagramLink *string `json:"instagram_link"`
	FacebookLink  *string `json:"facebook_link"`
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
	logger     *slog.Logger
}

// NewPlayerService returns the player service. uploader may be nil, in which case the
// photo operations report ErrPhotoStorageUnavailable.
func NewPlayerService(playerRepo repositories.PlayerRepository, uploader storage.FileUploader, logger *slog.Logger) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
		uploader:   uploader,
		logger:     logger,
	}
}

func (s *playerService) CreatePlayer(ctx context.Context, input CreatePlayerInput) (*models.PlayerView, error) {
	v := ValidationErrors{}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		v.Add("name", "must be provided")
	}
	dob := strings.TrimSpace(input.DOB)
	if dob == "" {
		v.Add("dob", "must be provided")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	player := &models.Player{
		ID:            newID(),
		Name:          name,
		DOB:           dob,
		InstagramLink: strings.TrimSpace(input.InstagramLink),
		FacebookLink:  strings.TrimSpace(input.FacebookLink),
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPlayerCreationFailed, err)
	}

	view := playerViewFunc(player, s.uploader)
	return &view, nil
}

func (s *playerService) GetPlayer(ctx context.Context, id string) (*models.PlayerView, error) {
	player, err := s.getPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	view := playerViewFunc(player, s.uploader)
	return &view, nil
}

func (s *playerService) ListPlayers(ctx context.Context) ([]models.PlayerView, error) {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	views := make([]models.PlayerView, 0, len(players))
	for _, p := range players {
		views = append(views, playerViewFunc(p, s.uploader))
	}
	return views, nil
}

func (s *playerService) UpdatePlayer(ctx context.Context, id string, input UpdatePlayerInput) (*models.PlayerView, error) {
	if input.Name == nil && input.DOB == nil && input.InstagramLink == nil && input.FacebookLink == nil {
		return nil, ErrNoFieldsToUpdate
	}

	player, err := s.getPlayer(ctx, id)
	if err != nil {
		return nil, err
	}

	v := ValidationErrors{}
	if input.Name != nil {
		player.Name = strings.TrimSpace(*input.Name)
		if player.Name == "" {
			v.Add("name", "must not be empty")
		}
	}
	if input.DOB != nil {
		player.DOB = strings.TrimSpace(*input.DOB)
		if player.DOB == "" {
			v.Add("dob", "must not be empty")
		}
	}
	if input.InstagramLink != nil {
		player.InstagramLink = strings.TrimSpace(*input.InstagramLink)
	}
	if input.FacebookLink != nil {
		player.FacebookLink = strings.TrimSpace(*input.FacebookLink)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if err := s.playerRepo.UpdateProfile(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrPlayerUpdateFailed, err)
	}

	view := playerViewFunc(player, s.uploader)
	return &view, nil
}

// DeletePlayer removes the player and, through the store, its roster records. Ledger
// entries that mention the player are kept; rolling them back later skips the player.
func (s *playerService) DeletePlayer(ctx context.Context, id string) error {
	player, err := s.getPlayer(ctx, id)
	if err != nil {
		return err
	}

	if err := s.playerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("%w: %w", ErrPlayerDeleteFailed, err)
	}

	if player.PhotoKey != nil {
		s.deletePhoto(ctx, *player.PhotoKey)
	}
	return nil
}

func (s *playerService) UploadPhoto(ctx context.Context, id string, contentType string, photo io.Reader) (*models.PlayerView, error) {
	if s.uploader == nil {
		return nil, ErrPhotoStorageUnavailable
	}
	if !storage.IsImage(contentType) {
		return nil, ValidationErrors{"photo": "must be an image"}
	}

	player, err := s.getPlayer(ctx, id)
	if err != nil {
		return nil, err
	}

	key := storage.PlayerPhotoKey(player.ID)
	if _, err := s.uploader.Upload(ctx, key, contentType, photo); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPhotoUploadFailed, err)
	}

	if err := s.playerRepo.UpdatePhoto(ctx, player.ID, key, contentType); err != nil {
		s.deletePhoto(ctx, key)
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrPlayerUpdateFailed, err)
	}

	if player.PhotoKey != nil && *player.PhotoKey != key {
		s.deletePhoto(ctx, *player.PhotoKey)
	}
	player.PhotoKey = &key
	player.PhotoContentType = &contentType

	view := playerViewFunc(player, s.uploader)
	return &view, nil
}

func (s *playerService) GetPhotoURL(ctx context.Context, id string) (string, error) {
	if s.uploader == nil {
		return "", ErrPhotoStorageUnavailable
	}
	player, err := s.getPlayer(ctx, id)
	if err != nil {
		return "", err
	}
	if player.PhotoKey == nil || *player.PhotoKey == "" {
		return "", ErrPhotoNotFound
	}
	return s.uploader.GetPublicURL(*player.PhotoKey), nil
}

func (s *playerService) getPlayer(ctx context.Context, id string) (*models.Player, error) {
	if err := ValidateID("player_id", id); err != nil {
		return nil, err
	}
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %s: %w", id, err)
	}
	return player, nil
}

func (s *playerService) deletePhoto(ctx context.Context, key string) {
	if s.uploader == nil {
		return
	}
	if err := s.uploader.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to delete player photo",
			slog.String("key", key),
			slog.Any("error", err))
	}
}
