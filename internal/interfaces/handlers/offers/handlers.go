package offers

import (
	"errors"
	"strconv"
	"strings"

	offersvc "energy-market-backend/internal/application/offers"
	"energy-market-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *offersvc.Service
}

// GET /api/energy-offers: active, unexpired offers, newest first.
func (h *Handlers) ListOffers(c *fiber.Ctx) error {
	offers, err := h.Service.ListActiveOffers(c.UserContext())
	if err != nil {
		return response.Error(c, "Error fetching offers", fiber.StatusInternalServerError, err)
	}
	return c.JSON(offers)
}

// GET /api/energy-offers/:offerId
func (h *Handlers) GetOffer(c *fiber.Ctx) error {
	offerID, err := strconv.ParseInt(c.Params("offerId"), 10, 64)
	if err != nil || offerID <= 0 {
		return response.Error(c, "Invalid offer id", fiber.StatusBadRequest, nil)
	}
	offer, err := h.Service.GetOffer(c.UserContext(), offerID)
	if err != nil {
		if errors.Is(err, offersvc.ErrOfferNotFound) {
			return response.Error(c, "Offer not found", fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Error fetching offer", fiber.StatusInternalServerError, err)
	}
	return c.JSON(offer)
}

// GET /api/producers/:producer/offers: every offer by one producer.
func (h *Handlers) ProducerOffers(c *fiber.Ctx) error {
	producer := strings.TrimSpace(c.Params("producer"))
	offers, err := h.Service.ListProducerOffers(c.UserContext(), producer)
	if err != nil {
		return response.Error(c, "Error fetching offers", fiber.StatusInternalServerError, err)
	}
	return c.JSON(offers)
}

// POST /api/list-energy: body {price, energyAmount, duration, producer}; 201 with the offer.
func (h *Handlers) ListEnergy(c *fiber.Ctx) error {
	body, err := decodeBody(c)
	if err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	offer, err := h.Service.CreateOffer(c.UserContext(), offersvc.CreateOfferInput{
		Producer:      asString(body["producer"]),
		PriceInWei:    asString(body["price"]),
		EnergyAmount:  asFloat(body["energyAmount"]),
		DurationHours: asInt(body["duration"]),
	})
	if err != nil {
		if errors.Is(err, offersvc.ErrMissingFields) || errors.Is(err, offersvc.ErrInvalidAmount) {
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		}
		return response.Error(c, "Error creating offer", fiber.StatusInternalServerError, err)
	}
	return c.Status(fiber.StatusCreated).JSON(offer)
}

// POST /api/purchase-energy: body {offerId, amount, buyer}.
func (h *Handlers) PurchaseEnergy(c *fiber.Ctx) error {
	body, err := decodeBody(c)
	if err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	offer, err := h.Service.Purchase(c.UserContext(),
		int64(asInt(body["offerId"])), asFloat(body["amount"]), asString(body["buyer"]))
	if err != nil {
		switch {
		case errors.Is(err, offersvc.ErrOfferNotFound):
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		case errors.Is(err, offersvc.ErrInsufficientQuantity),
			errors.Is(err, offersvc.ErrMissingFields),
			errors.Is(err, offersvc.ErrInvalidAmount):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		default:
			return response.Error(c, "Purchase failed", fiber.StatusInternalServerError, err)
		}
	}
	return c.JSON(fiber.Map{"message": "Purchase successful", "offer": offer})
}

// GET /api/leaderboard
func (h *Handlers) Leaderboard(c *fiber.Ctx) error {
	entries, err := h.Service.Leaderboard(c.UserContext())
	if err != nil {
		return response.Error(c, "Error fetching leaderboard", fiber.StatusInternalServerError, err)
	}
	return c.JSON(entries)
}
