package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"go-blog-api/internal/model"
	"go-blog-api/internal/util"
	"go-blog-api/pkg/apierror"
)

type TaxonomyService struct {
	taxonomy taxonomyStore
}

func NewTaxonomyService(taxonomy taxonomyStore) *TaxonomyService {
	return &TaxonomyService{taxonomy: taxonomy}
}

func (s *TaxonomyService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.taxonomy.ListCategories(ctx)
}

func (s *TaxonomyService) ListTags(ctx context.Context) ([]model.Tag, error) {
	return s.taxonomy.ListTags(ctx)
}

func (s *TaxonomyService) CreateCategory(ctx context.Context, req model.CreateCategoryRequest) (model.Category, error) {
	name := strings.TrimSpace(req.Name)
	if len([]rune(name)) < 2 {
		return model.Category{}, apierror.BadRequest("invalid request body", "category name must be at least 2 characters")
	}

	slug := util.Slugify(name)
	if slug == "" {
		return model.Category{}, apierror.BadRequest("invalid request body", "category name has no usable characters")
	}

	taken, err := s.taxonomy.ExistsCategorySlug(ctx, slug)
	if err != nil {
		return model.Category{}, err
	}
	if taken {
		return model.Category{}, apierror.New("ALREADY_EXISTS", "category already exists", slug, http.StatusConflict)
	}

	category := model.Category{ID: uuid.NewString(), Name: name, Slug: slug}
	if err := s.taxonomy.CreateCategory(ctx, category); err != nil {
		return model.Category{}, err
	}

	return category, nil
}

func (s *TaxonomyService) DeleteCategory(ctx context.Context, id string) error {
	return s.taxonomy.DeleteCategory(ctx, id)
}
