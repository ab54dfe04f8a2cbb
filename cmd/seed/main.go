package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"internhub/internal/config"
	"internhub/internal/db"
	"internhub/internal/logging"
	"internhub/internal/model"
	"internhub/internal/offerfacet"
	"internhub/internal/repository"
)

//go:embed fixture.json
var fixture []byte

// seedUser is a fixture account with its clear-text password.
type seedUser struct {
	User     model.User
	Password string
}

// seedOffer is a fixture offer keyed by the email of the company that owns it.
type seedOffer struct {
	CompanyEmail string
	Offer        model.Offer
}

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	log.Info("Starting seed script...")

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	if err := db.Migrate(gormDB, cfg.ResetDB, log); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}
	log.Info("Database migrations completed")

	users, offers, err := parseFixture(fixture)
	if err != nil {
		log.WithError(err).Fatal("Failed to parse fixture")
	}

	store := repository.NewStore(gormDB)
	ctx := context.Background()

	created, updated, err := seedUsers(ctx, store.Users(), users)
	if err != nil {
		log.WithError(err).Fatal("Failed to seed users")
	}
	log.WithFields(logrus.Fields{"created": created, "updated": updated}).Info("Users seeded")

	published, err := seedOffers(ctx, store, offers, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to seed offers")
	}
	log.WithField("created", published).Info("Offers seeded")
	log.Info("Seed completed successfully!")
}

// parseFixture reads the users and offers of the embedded fixture.
func parseFixture(data []byte) ([]seedUser, []seedOffer, error) {
	if !gjson.ValidBytes(data) {
		return nil, nil, errors.New("fixture is not valid JSON")
	}
	doc := gjson.ParseBytes(data)

	var users []seedUser
	for i, u := range doc.Get("users").Array() {
		email := strings.ToLower(strings.TrimSpace(u.Get("email").String()))
		if email == "" || u.Get("password").String() == "" {
			return nil, nil, fmt.Errorf("user %d: email and password are required", i)
		}
		role := model.Role(u.Get("role").String())
		if role == "" {
			role = model.RoleIntern
		}
		skills := []string{}
		for _, s := range u.Get("skills").Array() {
			skills = append(skills, s.String())
		}
		users = append(users, seedUser{
			Password: u.Get("password").String(),
			User: model.User{
				Name:        u.Get("name").String(),
				Lastname:    u.Get("lastname").String(),
				Email:       email,
				Phone:       u.Get("phonenumber").String(),
				Address:     u.Get("address").String(),
				Role:        role,
				Industry:    u.Get("industry").String(),
				Website:     u.Get("website").String(),
				Linkedin:    u.Get("linkedin").String(),
				Github:      u.Get("github").String(),
				Skills:      skills,
				Description: u.Get("description").String(),
			},
		})
	}

	var offers []seedOffer
	for i, o := range doc.Get("offers").Array() {
		if o.Get("company").String() == "" || o.Get("title").String() == "" {
			return nil, nil, fmt.Errorf("offer %d: company and title are required", i)
		}
		offers = append(offers, seedOffer{
			CompanyEmail: strings.ToLower(o.Get("company").String()),
			Offer: model.Offer{
				Title:       o.Get("title").String(),
				Location:    o.Get("location").String(),
				Duration:    o.Get("duration").String(),
				Type:        model.WorkType(o.Get("type").String()),
				Payment:     o.Get("payment").String(),
				Description: o.Get("description").String(),
			},
		})
	}
	return users, offers, nil
}

// seedUsers creates missing users and refreshes the profile of existing ones.
func seedUsers(ctx context.Context, repo repository.UserRepository, users []seedUser) (created int, updated int, err error) {
	for _, item := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(item.Password), bcrypt.DefaultCost)
		if err != nil {
			return created, updated, fmt.Errorf("hashing password of %s: %w", item.User.Email, err)
		}

		existing, err := repo.FindByEmail(ctx, item.User.Email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, updated, fmt.Errorf("error checking user %s: %w", item.User.Email, err)
		}

		if existing != nil {
			id, createdAt := existing.ID, existing.CreatedAt
			*existing = item.User
			existing.ID, existing.CreatedAt = id, createdAt
			existing.PasswordHash = string(hash)
			if err := repo.Update(ctx, existing); err != nil {
				return created, updated, fmt.Errorf("error updating user %s: %w", item.User.Email, err)
			}
			updated++
			continue
		}

		user := item.User
		user.PasswordHash = string(hash)
		if err := repo.Create(ctx, &user); err != nil {
			return created, updated, fmt.Errorf("error creating user %s: %w", item.User.Email, err)
		}
		created++
	}
	return created, updated, nil
}

// seedOffers publishes fixture offers whose title is not yet used by the owning company.
func seedOffers(ctx context.Context, store repository.Store, offers []seedOffer, log *logrus.Logger) (int, error) {
	created := 0
	for _, item := range offers {
		company, err := store.Users().FindByEmail(ctx, item.CompanyEmail)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.WithField("company", item.CompanyEmail).Warn("Skipping offer of unknown company")
				continue
			}
			return created, fmt.Errorf("error loading company %s: %w", item.CompanyEmail, err)
		}

		existing, err := store.Offers().List(ctx, repository.OfferFilter{CompanyID: company.ID})
		if err != nil {
			return created, fmt.Errorf("error listing offers of %s: %w", item.CompanyEmail, err)
		}
		if hasTitle(existing, item.Offer.Title) {
			continue
		}

		offer := item.Offer
		offer.CompanyID = company.ID
		offerfacet.Apply(&offer)
		if err := store.Offers().Create(ctx, &offer); err != nil {
			return created, fmt.Errorf("error creating offer %q: %w", offer.Title, err)
		}
		created++
	}
	return created, nil
}

func hasTitle(offers []model.Offer, title string) bool {
	for _, o := range offers {
		if strings.EqualFold(o.Title, title) {
			return true
		}
	}
	return false
}
