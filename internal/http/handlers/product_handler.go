package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"productcatalog/internal/domain"
	applog "productcatalog/internal/log"
	"productcatalog/internal/mapper"
	"productcatalog/internal/services"
	"productcatalog/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	items, err := h.Catalog.List(c.UserContext())
	if err != nil {
		return fail(c, "product.list", err)
	}
	return c.JSON(items)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c)
	}
	item, err := h.Catalog.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, "product.get", err)
	}
	return c.JSON(item)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	in, err := readProduct(c)
	if err != nil {
		return badBody(c, "product.create", err)
	}
	out, err := h.Catalog.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, "product.create", err)
	}
	applog.Audit(c, "product.create", map[string]any{"id": out.ID, "name": out.Name})
	c.Location("/items/" + out.ID)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update takes the id from the path; an id in the body is ignored.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c)
	}
	in, err := readProduct(c)
	if err != nil {
		return badBody(c, "product.update", err)
	}
	in.ID = mapper.FormatID(id)
	out, err := h.Catalog.Update(c.UserContext(), id, in)
	if err != nil {
		return fail(c, "product.update", err)
	}
	applog.Audit(c, "product.update", map[string]any{"id": out.ID, "name": out.Name})
	return c.JSON(out)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c)
	}
	deleted, err := h.Catalog.Delete(c.UserContext(), id)
	if err != nil {
		return fail(c, "product.delete", err)
	}
	applog.Audit(c, "product.delete", map[string]any{"id": deleted})
	return c.JSON(fiber.Map{"deleted": mapper.FormatID(deleted)})
}

// Page renders the read-only catalog.
func (h *ProductHandler) Page(c *fiber.Ctx) error {
	items, err := h.Catalog.List(c.UserContext())
	if err != nil {
		applog.Error(c, "product.page.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load the catalog"})
	}
	return render(c, "catalog", fiber.Map{"Items": items})
}

var errNotJSON = errors.New("content type is not application/json")

func readProduct(c *fiber.Ctx) (domain.ProductDTO, error) {
	if !c.Is("json") {
		return domain.ProductDTO{}, errNotJSON
	}
	return mapper.DecodeDTO(c.Body())
}

// badBody answers a body that could not be read. A field of the wrong JSON
// kind is reported like any other mapping failure.
func badBody(c *fiber.Ctx, action string, err error) error {
	var me *mapper.MappingError
	if errors.As(err, &me) {
		return fail(c, action, err)
	}
	applog.Warn(c, action+".body", err, nil)
	return c.Status(fiber.StatusBadRequest).JSON(errorBody{Error: "request body must be a JSON product"})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(errorBody{Error: "product not found"})
}

// fail turns a service error into a status. Only internal failures are
// logged at error level; their details stay out of the response.
func fail(c *fiber.Ctx, action string, err error) error {
	var me *mapper.MappingError
	var ve *services.ValidationError
	switch {
	case errors.Is(err, services.ErrNotFound):
		return notFound(c)
	case errors.As(err, &me):
		applog.Warn(c, action+".mapping", err, map[string]any{"field": me.Field})
		return c.Status(fiber.StatusBadRequest).JSON(errorBody{Error: me.Error(), Field: me.Field})
	case errors.As(err, &ve):
		applog.Warn(c, action+".validation", err, map[string]any{"field": ve.Field})
		return c.Status(fiber.StatusBadRequest).JSON(errorBody{Error: ve.Error(), Field: ve.Field})
	default:
		applog.Error(c, action+".fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(errorBody{Error: "internal error"})
	}
}
