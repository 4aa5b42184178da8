package models

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"earlywarning/internal/db"
	"earlywarning/internal/env"
	"earlywarning/internal/errmsg"
	"earlywarning/internal/utils"

	sj "github.com/brianvoe/sjwt"
	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
)

// Party is a stakeholder who initiates or verifies changelog entries:
// a focal person, agency contact or operator.
type Party struct {
	ID       string `json:"_id,omitempty" bson:"_id,omitempty"`
	Name     string `json:"name" bson:"name"`
	Email    string `json:"email" bson:"email"`
	Password string `json:"password,omitempty" bson:"password"`
}

func (p *Party) GenToken() string {
	claims, _ := sj.ToClaims(p)
	claims.SetExpiresAt(time.Now().Add(365 * 24 * time.Hour))

	token := claims.Generate(env.JWT_SECRET)
	return token
}

func (p *Party) ParseToken(token string) error {
	hasVerified := sj.Verify(token, env.JWT_SECRET)

	if !hasVerified {
		return nil
	}

	claims, _ := sj.Parse(token)
	err := claims.Validate()
	claims.ToStruct(&p)

	return err
}

func PartyMiddleware(c fiber.Ctx) error {
	var token string

	authHeader := c.Get("Authorization")

	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer") {
		tokens := strings.Fields(authHeader)
		if len(tokens) == 2 {
			token = tokens[1]
		}

		if token == "" {
			return utils.Error(
				c,
				http.StatusUnauthorized,
				errors.New("unauthorized"),
			)
		}

		var party Party
		err := party.ParseToken(token)
		if err != nil {
			return errors.New("unauthorized")
		}

		if party.Email == "" {
			return utils.Error(
				c,
				http.StatusUnauthorized,
				errors.New("unauthorized"),
			)
		}

		party.Password = ""
		utils.SetLocals(c, "party", party)
	}

	if token == "" {
		return utils.Error(
			c,
			http.StatusUnauthorized,
			errors.New("unauthorized"),
		)
	}

	return c.Next()
}

// PartyOptionalMiddleware sets the party locals when a valid bearer
// token is presented but lets anonymous requests through. Creation
// endpoints use it to default the initiator to whoever is logged in.
func PartyOptionalMiddleware(c fiber.Ctx) error {
	authHeader := c.Get("Authorization")

	if strings.HasPrefix(authHeader, "Bearer") {
		tokens := strings.Fields(authHeader)
		if len(tokens) == 2 {
			var party Party
			if err := party.ParseToken(tokens[1]); err == nil && party.Email != "" {
				party.Password = ""
				utils.SetLocals(c, "party", party)
			}
		}
	}

	return c.Next()
}

func (p *Party) Get(email string) errmsg.StatusError {
	err := db.Parties.FindOne(db.Ctx, bson.M{
		"email": email,
	}).Decode(&p)
	if err != nil {
		return errmsg.PartyNotExists
	}

	if p.Password == "" {
		return errmsg.PartyNotExists
	}

	return errmsg.EmptyStatusError
}
