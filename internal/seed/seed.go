// Package seed creates demo data through the repository layer. It is meant
// for development and tests only.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"blog/internal/middleware"
	"blog/internal/models"
	"blog/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "password123"

// Options controls how much data is generated.
type Options struct {
	Users           int
	Posts           int
	MaxComments     int
	MaxLikes        int
	MaxDays         int
	Seed            int64
	SkipBcrypt      bool
	ImageProbability float64
}

// DefaultOptions mirrors the cmd/seed defaults.
func DefaultOptions() Options {
	return Options{
		Users:           20,
		Posts:           60,
		MaxComments:     5,
		MaxLikes:        10,
		MaxDays:         90,
		ImageProbability: 0.5,
	}
}

// Result counts what was written.
type Result struct {
	Users    []*models.User
	Posts    []*models.Post
	Comments int
	Likes    int
}

// Seeder writes fake users, posts, comments and likes into a store.
type Seeder struct {
	store repository.Store
	opts  Options
	faker *gofakeit.Faker
	rng   *rand.Rand
}

// NewSeeder builds a seeder. A zero opts.Seed picks a time based seed.
func NewSeeder(store repository.Store, opts Options) *Seeder {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	return &Seeder{
		store: store,
		opts:  opts,
		faker: gofakeit.New(seed),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Run seeds users, then posts spread over them, then engagement.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	if s.opts.Users <= 0 {
		return nil, fmt.Errorf("seed: at least one user is required")
	}

	res := &Result{}
	password, err := s.passwordHash()
	if err != nil {
		return nil, err
	}

	for i := 0; i < s.opts.Users; i++ {
		u, err := s.CreateUser(ctx, password)
		if err != nil {
			return nil, fmt.Errorf("seed user %d: %w", i, err)
		}
		res.Users = append(res.Users, u)
	}
	middleware.Logger.Info("seeded users", slog.Int("count", len(res.Users)))

	for i := 0; i < s.opts.Posts; i++ {
		author := res.Users[s.rng.Intn(len(res.Users))]
		p, err := s.CreatePost(ctx, author)
		if err != nil {
			return nil, fmt.Errorf("seed post %d: %w", i, err)
		}
		res.Posts = append(res.Posts, p)
	}
	middleware.Logger.Info("seeded posts", slog.Int("count", len(res.Posts)))

	for _, p := range res.Posts {
		n, err := s.engage(ctx, p, res.Users)
		if err != nil {
			return nil, err
		}
		res.Comments += n.comments
		res.Likes += n.likes
	}
	middleware.Logger.Info("seeded engagement",
		slog.Int("comments", res.Comments),
		slog.Int("likes", res.Likes),
	)
	return res, nil
}

func (s *Seeder) passwordHash() (string, error) {
	if s.opts.SkipBcrypt {
		return DefaultPassword, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("seed: hash password: %w", err)
	}
	return string(hashed), nil
}

// CreateUser persists one fake user with the given password hash.
func (s *Seeder) CreateUser(ctx context.Context, passwordHash string) (*models.User, error) {
	// The numeric suffix keeps usernames unique across large runs.
	name := fmt.Sprintf("%s%d", sanitize(s.faker.Username()), s.faker.Number(100, 99999))
	if len(name) > 30 {
		name = name[len(name)-30:]
	}
	u := &models.User{
		Username: name,
		Email:    fmt.Sprintf("%s@%s", name, s.faker.DomainName()),
		Password: passwordHash,
	}
	if err := s.store.Users().Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// CreatePost persists one fake post by author, backdated within MaxDays.
func (s *Seeder) CreatePost(ctx context.Context, author *models.User) (*models.Post, error) {
	p := &models.Post{
		Title:     s.faker.Sentence(5),
		Content:   s.faker.Paragraph(1, 3, 5, "\n"),
		AuthorID:  author.ID,
		CreatedAt: s.backdate(),
	}
	if s.rng.Float64() < s.opts.ImageProbability {
		p.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", s.faker.UUID())
	}
	if err := s.store.Posts().Create(ctx, p); err != nil {
		return nil, err
	}
	p.Author = *author
	return p, nil
}

type engagement struct {
	comments int
	likes    int
}

func (s *Seeder) engage(ctx context.Context, p *models.Post, users []*models.User) (engagement, error) {
	var n engagement

	for i := s.rng.Intn(s.opts.MaxComments + 1); i > 0; i-- {
		author := users[s.rng.Intn(len(users))]
		c := &models.Comment{
			Content:   s.faker.Sentence(s.rng.Intn(12) + 3),
			AuthorID:  author.ID,
			PostID:    p.ID,
			CreatedAt: p.CreatedAt.Add(time.Duration(s.rng.Intn(72)+1) * time.Hour),
		}
		if err := s.store.Comments().Create(ctx, c); err != nil {
			return n, fmt.Errorf("seed comment on %s: %w", p.ID, err)
		}
		n.comments++
	}

	for _, idx := range s.rng.Perm(len(users))[:min(s.opts.MaxLikes, len(users))] {
		if s.rng.Intn(2) == 0 {
			continue
		}
		added, err := s.store.Likes().Add(ctx, users[idx].ID, p.ID)
		if err != nil {
			return n, fmt.Errorf("seed like on %s: %w", p.ID, err)
		}
		if added {
			n.likes++
		}
	}
	return n, nil
}

func (s *Seeder) backdate() time.Time {
	back := time.Duration(s.rng.Intn(s.opts.MaxDays))*24*time.Hour +
		time.Duration(s.rng.Intn(24))*time.Hour +
		time.Duration(s.rng.Intn(60))*time.Minute
	return time.Now().Add(-back)
}

// sanitize keeps the characters usernames allow.
func sanitize(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return "user"
	}
	return string(out)
}
