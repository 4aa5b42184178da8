package parties

import (
	"encoding/json"
	"strings"

	"earlywarning/internal/errmsg"
	"earlywarning/internal/models"
	"earlywarning/internal/utils"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

func loginHandler(c fiber.Ctx) error {
	var body models.Party
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return utils.StatusError(c, errmsg.PartyInvalidPayload)
	}

	body.Email = strings.TrimSpace(body.Email)
	body.Password = strings.TrimSpace(body.Password)
	if body.Email == "" || body.Password == "" {
		return utils.StatusError(c, errmsg.PartyInvalidPayload)
	}

	party := models.Party{}
	serr := party.Get(body.Email)
	if serr != errmsg.EmptyStatusError {
		return utils.StatusError(c, serr)
	}

	if bcrypt.CompareHashAndPassword(
		[]byte(party.Password),
		[]byte(body.Password),
	) != nil {
		return utils.StatusError(c, errmsg.PartyWrongPassword)
	}

	token := party.GenToken()

	party.Password = ""

	return c.JSON(bson.M{
		"token": token,
		"party": party,
	})
}
