package api

import "github.com/gofiber/fiber/v2"

// Route is implemented by every feature's Api type. Implementations are
// collected into the fx "routes" group and registered at startup.
type Route interface {
	Setup(app *fiber.App)
}
