package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/tu-usuario/taller-pos/internal/application/sales"
	"github.com/tu-usuario/taller-pos/internal/domain/entity"
	"github.com/tu-usuario/taller-pos/internal/domain/repository"
	"github.com/tu-usuario/taller-pos/pkg/logger"
)

// ProductCache guarda snapshots de producto para aliviar lecturas del catálogo
// durante la creación de ventas.
type ProductCache interface {
	Get(ctx context.Context, id string) (*entity.Product, bool, error)
	Set(ctx context.Context, product *entity.Product) error
}

// NoopProductCache desactiva el caché (sin Redis configurado).
type NoopProductCache struct{}

func (NoopProductCache) Get(ctx context.Context, id string) (*entity.Product, bool, error) {
	return nil, false, nil
}

func (NoopProductCache) Set(ctx context.Context, product *entity.Product) error { return nil }

// RedisProductCache implementación sobre Redis con TTL.
type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisProductCache construye el caché. ttl <= 0 usa 10 minutos.
func NewRedisProductCache(addr, password string, db int, ttl time.Duration) *RedisProductCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisProductCache{client: client, ttl: ttl}
}

// Ping verifica la conexión.
func (c *RedisProductCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close cierra el cliente.
func (c *RedisProductCache) Close() error {
	return c.client.Close()
}

func productKey(id string) string { return "product:" + id }

// Get devuelve el producto cacheado, found=false si no está.
func (c *RedisProductCache) Get(ctx context.Context, id string) (*entity.Product, bool, error) {
	val, err := c.client.Get(ctx, productKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var p entity.Product
	if err := json.Unmarshal([]byte(val), &p); err != nil {
		return nil, false, err
	}
	return &p, true, nil
}

// Set guarda el producto con el TTL configurado.
func (c *RedisProductCache) Set(ctx context.Context, product *entity.Product) error {
	if product == nil {
		return nil
	}
	payload, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, productKey(product.ID), payload, c.ttl).Err()
}

var _ sales.ProductDirectory = (*CachedProductDirectory)(nil)

// CachedProductDirectory resuelve productos con caché delante del repositorio.
// Los fallos del caché nunca fallan la lectura: se degrada a la base.
type CachedProductDirectory struct {
	repo  repository.ProductRepository
	cache ProductCache
	log   *logger.Logger
}

// NewCachedProductDirectory construye el directorio. cache nil desactiva el caché.
func NewCachedProductDirectory(repo repository.ProductRepository, cache ProductCache, log *logger.Logger) *CachedProductDirectory {
	if cache == nil {
		cache = NoopProductCache{}
	}
	return &CachedProductDirectory{repo: repo, cache: cache, log: log}
}

// GetProduct busca primero en caché y luego en la base; nil si no existe.
func (d *CachedProductDirectory) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	if p, found, err := d.cache.Get(ctx, id); err != nil {
		d.log.Debug().Err(err).Str("product", id).Msg("caché de productos no disponible")
	} else if found {
		return p, nil
	}

	p, err := d.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	if err := d.cache.Set(ctx, p); err != nil {
		d.log.Debug().Err(err).Str("product", id).Msg("no se pudo cachear el producto")
	}
	return p, nil
}
