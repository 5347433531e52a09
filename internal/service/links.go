package service

import (
	"context"
	"time"

	"github.com/inreleppik/shortlink/internal/model"
	"github.com/inreleppik/shortlink/internal/util"
	"go.uber.org/zap"
)

// Repository — методы хранилища, которые нужны движку жизненного цикла ссылок.
type Repository interface {
	CreateLink(ctx context.Context, link *model.Link) error
	ResolveLink(ctx context.Context, code string, now time.Time) (*model.Link, error)
	GetByCode(ctx context.Context, code string) (*model.Link, error)
	GetActiveByCode(ctx context.Context, code string) (*model.Link, error)
	SearchByOrigin(ctx context.Context, originalURL string) ([]*model.Link, error)
	ListDeleted(ctx context.Context) ([]*model.Link, error)
	UpdateOriginal(ctx context.Context, code, originalURL string, now time.Time) (bool, error)
	SoftDelete(ctx context.Context, code string) error
	Ping(ctx context.Context) error
}

// LinkService реализует жизненный цикл коротких ссылок: создание,
// разрешение с учётом переходов, поиск, смену URL, удаление и статистику.
type LinkService struct {
	Repo   Repository
	Logger *zap.Logger
	now    func() time.Time
}

func NewLinkService(repo Repository, logger *zap.Logger) *LinkService {
	return &LinkService{
		Repo:   repo,
		Logger: logger,
		now:    time.Now,
	}
}

// Create создаёт короткую ссылку. userID == nil означает анонимное создание:
// ссылке принудительно назначается срок жизни, а запрошенный expires_at
// игнорируется. Занятый alias даёт model.ErrAliasTaken.
func (s *LinkService) Create(ctx context.Context, req model.ShortenRequest, userID *string) (*model.Link, error) {
	now := s.now().UTC()

	link := &model.Link{
		ShortCode:   util.AllocateCode(req.CustomAlias),
		OriginalURL: util.NormalizeURL(req.OriginalURL),
		UserID:      userID,
		CreatedAt:   now,
		ExpiresAt:   req.ExpiresAt,
	}
	if userID == nil {
		forced := model.AnonymousExpiry(now)
		link.ExpiresAt = &forced
	}

	if err := s.Repo.CreateLink(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// Resolve возвращает ссылку для редиректа, атомарно увеличивая счётчик
// переходов. Истёкшая ссылка удаляется физически (model.ErrLinkGone),
// отсутствующая или помеченная удалённой — model.ErrLinkNotFound.
func (s *LinkService) Resolve(ctx context.Context, code string) (*model.Link, error) {
	link, err := s.Repo.ResolveLink(ctx, code, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, model.ErrLinkNotFound
	}
	return link, nil
}

// Search возвращает все активные ссылки с данным оригинальным URL.
// Пустой результат считается ошибкой model.ErrLinkNotFound.
func (s *LinkService) Search(ctx context.Context, originalURL string) ([]*model.Link, error) {
	links, err := s.Repo.SearchByOrigin(ctx, util.NormalizeURL(originalURL))
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, model.ErrLinkNotFound
	}
	return links, nil
}

// Update меняет оригинальный URL ссылки. Анонимные ссылки неизменяемы,
// чужие — запрещены (model.ErrForbidden).
func (s *LinkService) Update(ctx context.Context, code, originalURL, userID string) error {
	link, err := s.Repo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if link == nil || link.IsDeleted {
		return model.ErrLinkNotFound
	}
	if err := checkOwner(link, userID); err != nil {
		return err
	}

	updated, err := s.Repo.UpdateOriginal(ctx, code, util.NormalizeURL(originalURL), s.now().UTC())
	if err != nil {
		return err
	}
	if !updated {
		// Ссылку успели удалить между проверкой и записью
		return model.ErrLinkNotFound
	}
	return nil
}

// Delete помечает ссылку как удалённую. Повторное удаление уже удалённой
// ссылки считается успехом. Проверки владения те же, что и в Update.
func (s *LinkService) Delete(ctx context.Context, code, userID string) error {
	link, err := s.Repo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if link == nil {
		return model.ErrLinkNotFound
	}
	if err := checkOwner(link, userID); err != nil {
		return err
	}
	return s.Repo.SoftDelete(ctx, code)
}

// Stats возвращает запись активной ссылки без побочных эффектов.
func (s *LinkService) Stats(ctx context.Context, code string) (*model.Link, error) {
	link, err := s.Repo.GetActiveByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, model.ErrLinkNotFound
	}
	return link, nil
}

// Expired возвращает все ссылки, помеченные как удалённые
// (диагностический список, исторически называемый "expired").
func (s *LinkService) Expired(ctx context.Context) ([]*model.Link, error) {
	return s.Repo.ListDeleted(ctx)
}

// Ping проверяет доступность хранилища.
func (s *LinkService) Ping(ctx context.Context) error {
	return s.Repo.Ping(ctx)
}

func checkOwner(link *model.Link, userID string) error {
	if link.UserID == nil {
		// Анонимную ссылку нельзя менять и удалять
		return model.ErrForbidden
	}
	if *link.UserID != userID {
		return model.ErrForbidden
	}
	return nil
}
