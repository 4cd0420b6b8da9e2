package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"testing"

	"cityguard/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartBody(t *testing.T, files map[string]string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for field, name := range files {
		part, err := writer.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	for field, value := range fields {
		require.NoError(t, writer.WriteField(field, value))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestAdImagesReadsCamelCaseFields(t *testing.T) {
	var got *services.AdImages

	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		got = adImages(c)
		return c.SendStatus(fiber.StatusOK)
	})

	body, contentType := multipartBody(t, map[string]string{
		"image":       "hero.png",
		"mobileImage": "hero-mobile.png",
		"tabletImage": "hero-tablet.png",
	}, nil)

	req, err := http.NewRequest(http.MethodPost, "/", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.NotNil(t, got)
	require.NotNil(t, got.Image)
	require.NotNil(t, got.MobileImage)
	require.NotNil(t, got.TabletImage)
	assert.Equal(t, "hero-mobile.png", got.MobileImage.Filename)
	assert.Equal(t, "hero-tablet.png", got.TabletImage.Filename)
}

func TestAdImagesNilWithoutUploads(t *testing.T) {
	sentinel := &services.AdImages{}
	got := sentinel

	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		got = adImages(c)
		return c.SendStatus(fiber.StatusOK)
	})

	body, contentType := multipartBody(t, nil, map[string]string{"title": "إعلان"})

	req, err := http.NewRequest(http.MethodPost, "/", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Nil(t, got)
}

func TestUpdateBusinessRequestParsesRemoveImages(t *testing.T) {
	var got UpdateBusinessRequest

	app := fiber.New()
	app.Put("/", func(c *fiber.Ctx) error {
		if err := c.BodyParser(&got); err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	req, err := http.NewRequest(http.MethodPut, "/",
		bytes.NewReader([]byte(`{"name":"متجر","removeImages":["/uploads/a.png","/uploads/b.png"]}`)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, got.Name)
	assert.Equal(t, "متجر", *got.Name)
	assert.Equal(t, []string{"/uploads/a.png", "/uploads/b.png"}, got.RemoveImages)
}
