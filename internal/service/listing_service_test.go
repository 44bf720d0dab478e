package service

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/carventory/internal/config"
	"github.com/spec-kit/carventory/internal/domain"
	"github.com/spec-kit/carventory/internal/uploads"
	apperrors "github.com/spec-kit/carventory/pkg/util"
)

func newTestStore(t *testing.T) (*uploads.Store, string) {
	t.Helper()
	base := t.TempDir()
	cfg := config.UploadsConfig{
		Dir:          filepath.Join(base, "uploads"),
		StagingDir:   filepath.Join(base, "staging"),
		MaxFileBytes: 1 << 20,
	}
	store, err := uploads.NewStore(cfg, zap.NewNop())
	require.NoError(t, err)
	return store, cfg.Dir
}

func stageImages(t *testing.T, store *uploads.Store, n int) *uploads.Staging {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for i := 0; i < n; i++ {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename="img%d.png"`, i))
		header.Set("Content-Type", "image/png")
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("png-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	staging, err := store.Stage(form.File["images"])
	require.NoError(t, err)
	return staging
}

func validListingInput() ListingInput {
	return ListingInput{
		Title:          "Honda Civic 2020",
		Make:           "Honda",
		Model:          "Civic",
		Year:           2020,
		Price:          25000,
		Description:    "Single owner, full service history",
		Mileage:        32000,
		Transmission:   domain.TransmissionManual,
		Color:          "White",
		FuelType:       domain.FuelPetrol,
		EngineCapacity: 1800,
		Condition:      domain.ConditionUsedExcellent,
		SellerName:     "Ali",
		SellerPhone:    "0300-0000000",
		SellerEmail:    "ali@example.com",
	}
}

func TestListingCreateCommitsImages(t *testing.T) {
	store, servingDir := newTestStore(t)
	cars := newFakeCarRepo()
	svc := NewListingService(cars, store, 5)

	staging := stageImages(t, store, 2)
	owner := &domain.User{ID: "user-1"}

	car, err := svc.Create(context.Background(), owner, validListingInput(), staging)
	require.NoError(t, err)
	require.Len(t, car.ImageURLs, 2)
	assert.Equal(t, "user-1", car.OwnerID)
	assert.NotEmpty(t, car.ID)

	for _, url := range car.ImageURLs {
		_, err := os.Stat(filepath.Join(servingDir, path.Base(url)))
		assert.NoError(t, err, "committed image should exist: %s", url)
	}
}

func TestListingCreateImageCountBounds(t *testing.T) {
	store, servingDir := newTestStore(t)
	cars := newFakeCarRepo()
	svc := NewListingService(cars, store, 5)
	owner := &domain.User{ID: "user-1"}

	for _, n := range []int{0, 5} {
		staging := stageImages(t, store, n)
		_, err := svc.Create(context.Background(), owner, validListingInput(), staging)
		require.Error(t, err, "image count %d must be rejected", n)
		assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
	}

	entries, err := os.ReadDir(servingDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no images may be committed on failure")
}

func TestListingCreateEnforcesQuota(t *testing.T) {
	store, _ := newTestStore(t)
	cars := newFakeCarRepo()
	svc := NewListingService(cars, store, 2)
	owner := &domain.User{ID: "user-1"}

	for i := 0; i < 2; i++ {
		_, err := svc.Create(context.Background(), owner, validListingInput(), stageImages(t, store, 1))
		require.NoError(t, err)
	}

	_, err := svc.Create(context.Background(), owner, validListingInput(), stageImages(t, store, 1))
	require.Error(t, err)
	assert.Equal(t, "INVALID_OPERATION", apperrors.ToDomainError(err).Code)
}

func TestListingCreateValidatesFields(t *testing.T) {
	store, _ := newTestStore(t)
	svc := NewListingService(newFakeCarRepo(), store, 5)
	owner := &domain.User{ID: "user-1"}

	input := validListingInput()
	input.Transmission = "CVT"
	input.Year = 1850

	_, err := svc.Create(context.Background(), owner, input, stageImages(t, store, 1))
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Contains(t, domainErr.Details, "transmission")
	assert.Contains(t, domainErr.Details, "year")
}

func TestListingUpdateOwnerOnly(t *testing.T) {
	store, _ := newTestStore(t)
	cars := newFakeCarRepo()
	svc := NewListingService(cars, store, 5)

	car, err := svc.Create(context.Background(), &domain.User{ID: "user-1"}, validListingInput(), stageImages(t, store, 1))
	require.NoError(t, err)

	newTitle := "Hacked"
	_, err = svc.Update(context.Background(), "user-2", car.ID, ListingPatch{Title: &newTitle}, nil)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestListingUpdateAppliesPatch(t *testing.T) {
	store, _ := newTestStore(t)
	cars := newFakeCarRepo()
	svc := NewListingService(cars, store, 5)

	car, err := svc.Create(context.Background(), &domain.User{ID: "user-1"}, validListingInput(), stageImages(t, store, 2))
	require.NoError(t, err)

	newPrice := 24000.0
	newTitle := "Honda Civic 2020 (price drop)"
	updated, err := svc.Update(context.Background(), "user-1", car.ID, ListingPatch{Title: &newTitle, Price: &newPrice}, nil)
	require.NoError(t, err)

	assert.Equal(t, newTitle, updated.Title)
	assert.Equal(t, newPrice, updated.Price)
	assert.Equal(t, car.ImageURLs, updated.ImageURLs, "images unchanged when none staged")
}

func TestListingUpdateReplacesImagesWholesale(t *testing.T) {
	store, servingDir := newTestStore(t)
	cars := newFakeCarRepo()
	svc := NewListingService(cars, store, 5)

	car, err := svc.Create(context.Background(), &domain.User{ID: "user-1"}, validListingInput(), stageImages(t, store, 2))
	require.NoError(t, err)
	oldImages := car.ImageURLs

	updated, err := svc.Update(context.Background(), "user-1", car.ID, ListingPatch{}, stageImages(t, store, 1))
	require.NoError(t, err)
	require.Len(t, updated.ImageURLs, 1)
	assert.NotContains(t, oldImages, updated.ImageURLs[0])

	for _, url := range oldImages {
		_, err := os.Stat(filepath.Join(servingDir, path.Base(url)))
		assert.True(t, os.IsNotExist(err), "replaced image should be removed: %s", url)
	}
	_, err = os.Stat(filepath.Join(servingDir, path.Base(updated.ImageURLs[0])))
	assert.NoError(t, err)
}

func TestListingDeleteRemovesImages(t *testing.T) {
	store, servingDir := newTestStore(t)
	cars := newFakeCarRepo()
	svc := NewListingService(cars, store, 5)

	car, err := svc.Create(context.Background(), &domain.User{ID: "user-1"}, validListingInput(), stageImages(t, store, 1))
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "user-2", car.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	require.NoError(t, svc.Delete(context.Background(), "user-1", car.ID))

	_, err = svc.GetByID(context.Background(), car.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)

	entries, err := os.ReadDir(servingDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListingListByOwner(t *testing.T) {
	store, _ := newTestStore(t)
	cars := newFakeCarRepo()
	svc := NewListingService(cars, store, 5)

	_, err := svc.Create(context.Background(), &domain.User{ID: "user-1"}, validListingInput(), stageImages(t, store, 1))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), &domain.User{ID: "user-2"}, validListingInput(), stageImages(t, store, 1))
	require.NoError(t, err)

	mine, err := svc.ListByOwner(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
