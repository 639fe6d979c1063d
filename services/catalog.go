package services

import (
	"context"
	"fmt"
	"log"

	"DoctorsPortal/cache"
	"DoctorsPortal/db"
	"DoctorsPortal/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Cache is the read-through cache in front of the service catalog.
type Cache interface {
	Get(ctx context.Context, key string, out interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
}

// CatalogService reads the fixed list of treatments.
type CatalogService struct {
	services db.Collection
	cache    Cache
}

func NewCatalogService(store db.Store, cache Cache) *CatalogService {
	return &CatalogService{services: store.Collection(db.ServiceCollection), cache: cache}
}

/*
* Only _id and name are returned
 */
func (s *CatalogService) Names(ctx context.Context) ([]models.ServiceName, error) {
	var names []models.ServiceName
	if err := s.services.Find(ctx, bson.M{}, &names, "name"); err != nil {
		return nil, fmt.Errorf("list service names: %w", err)
	}
	if names == nil {
		names = []models.ServiceName{}
	}
	return names, nil
}

/*
* Try the cache first, fall back to the store and refill the cache
* Every call returns a fresh slice the caller may modify
 */
func (s *CatalogService) All(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	if s.cache != nil {
		hit, err := s.cache.Get(ctx, cache.ServiceCatalogKey, &services)
		if err != nil {
			log.Println("Error while reading service catalog from cache:", err)
		}
		if hit {
			return services, nil
		}
	}
	services = nil
	if err := s.services.Find(ctx, bson.M{}, &services); err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	if services == nil {
		services = []models.Service{}
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.ServiceCatalogKey, services); err != nil {
			log.Println("Error while caching service catalog:", err)
		}
	}
	return services, nil
}

func (s *CatalogService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, cache.ServiceCatalogKey)
}
