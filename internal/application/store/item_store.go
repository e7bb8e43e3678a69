package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/namistock-host/internal/domain"
	"github.com/jhoicas/namistock-host/internal/domain/entity"
	"github.com/jhoicas/namistock-host/internal/domain/repository"
)

// ItemStore es la colección autoritativa en memoria de artículos y categorías.
// Toda mutación pasa por el lock de escritura: el motor de sync y el cierre de
// ciclo son los únicos escritores, las lecturas de consulta usan RLock.
// La persistencia es una foto durable vía SnapshotRepository.
type ItemStore struct {
	mu       sync.RWMutex
	snapRepo repository.SnapshotRepository

	items      []*entity.Item
	categories []string
}

// New construye el store vacío.
func New(snapRepo repository.SnapshotRepository) *ItemStore {
	return &ItemStore{snapRepo: snapRepo}
}

// Load carga la última foto durable. Sin foto previa el store queda vacío.
// Toda categoría referida por un artículo se registra aunque falte en la
// lista guardada (el store mantiene el invariante, no lo asume).
func (s *ItemStore) Load(ctx context.Context) error {
	snap, err := s.snapRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("cargar foto: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = s.items[:0]
	s.categories = s.categories[:0]
	if snap == nil {
		return nil
	}
	for _, c := range snap.Categories {
		s.addCategoryLocked(c)
	}
	for i := range snap.Items {
		it := snap.Items[i]
		s.addCategoryLocked(it.Category)
		s.items = append(s.items, &it)
	}
	return nil
}

// Save persiste la foto actual.
func (s *ItemStore) Save(ctx context.Context) error {
	snap := s.Snapshot()
	if err := s.snapRepo.Save(ctx, snap); err != nil {
		return fmt.Errorf("guardar foto: %w", err)
	}
	return nil
}

// Snapshot devuelve una copia profunda de la colección (segura para serializar).
func (s *ItemStore) Snapshot() *entity.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := &entity.Snapshot{
		Items:      make([]entity.Item, 0, len(s.items)),
		Categories: append([]string(nil), s.categories...),
	}
	for _, it := range s.items {
		snap.Items = append(snap.Items, *it)
	}
	return snap
}

// Categories devuelve la lista ordenada de categorías.
func (s *ItemStore) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.categories...)
}

// Items devuelve copias de todos los artículos en orden estable
// (orden de la lista de categorías, luego orden de inserción).
func (s *ItemStore) Items() []entity.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Item, 0, len(s.items))
	for _, c := range s.categories {
		for _, it := range s.items {
			if it.Category == c {
				out = append(out, *it)
			}
		}
	}
	return out
}

// ItemsByCategory devuelve copias de los artículos de una categoría.
func (s *ItemStore) ItemsByCategory(category string) []entity.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.Item
	for _, it := range s.items {
		if it.Category == category {
			out = append(out, *it)
		}
	}
	return out
}

// Find devuelve una copia del artículo por clave, o ErrNotFound.
func (s *ItemStore) Find(key entity.ItemKey) (entity.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if it := s.findLocked(key); it != nil {
		return *it, nil
	}
	return entity.Item{}, domain.ErrNotFound
}

// AddCategory registra una categoría nueva. Las categorías se crean de forma
// explícita, nunca se infieren (salvo la importación masiva).
func (s *ItemStore) AddCategory(name string) error {
	if name == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c == name {
			return domain.ErrDuplicate
		}
	}
	s.categories = append(s.categories, name)
	return nil
}

// RemoveCategory elimina una categoría y, en cascada, sus artículos.
func (s *ItemStore) RemoveCategory(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, c := range s.categories {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.ErrNotFound
	}
	s.categories = append(s.categories[:idx], s.categories[idx+1:]...)
	kept := s.items[:0]
	for _, it := range s.items {
		if it.Category != name {
			kept = append(kept, it)
		}
	}
	s.items = kept
	return nil
}

// AddItem agrega un artículo. La categoría debe existir previamente;
// la clave (categoría, nombre) no puede repetirse.
func (s *ItemStore) AddItem(item entity.Item) error {
	if item.Category == "" || item.Name == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasCategoryLocked(item.Category) {
		return domain.ErrNotFound
	}
	if s.findLocked(item.Key()) != nil {
		return domain.ErrDuplicate
	}
	s.items = append(s.items, &item)
	return nil
}

// UpdateItem reemplaza los campos editables de un artículo existente.
// Los contadores de ciclo (StockRemaining, OrderQty) no se tocan aquí.
func (s *ItemStore) UpdateItem(key entity.ItemKey, upd entity.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := s.findLocked(key)
	if it == nil {
		return domain.ErrNotFound
	}
	it.ItemNumber = upd.ItemNumber
	it.PrevStock = upd.PrevStock
	it.MinStockTarget = upd.MinStockTarget
	it.UnitPrice = upd.UnitPrice
	return nil
}

// RemoveItem elimina un artículo por clave.
func (s *ItemStore) RemoveItem(key entity.ItemKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.Category == key.Category && it.Name == key.Name {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ReplaceAll sustituye la colección completa (importación). Es el único punto
// donde una categoría desconocida se crea implícitamente.
func (s *ItemStore) ReplaceAll(items []entity.Item, categories []string) error {
	for _, it := range items {
		if it.Category == "" || it.Name == "" {
			return domain.ErrInvalidInput
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.categories = nil
	for _, c := range categories {
		s.addCategoryLocked(c)
	}
	for i := range items {
		it := items[i]
		s.addCategoryLocked(it.Category)
		s.items = append(s.items, &it)
	}
	return nil
}

// Collection da acceso directo a los artículos vivos dentro de Mutate.
type Collection struct {
	s *ItemStore
}

// Items devuelve los punteros vivos (solo válido dentro del callback de Mutate).
func (c Collection) Items() []*entity.Item {
	return c.s.items
}

// Find devuelve el puntero vivo por clave, o nil.
func (c Collection) Find(key entity.ItemKey) *entity.Item {
	return c.s.findLocked(key)
}

// Categories devuelve la lista de categorías.
func (c Collection) Categories() []string {
	return c.s.categories
}

// Mutate ejecuta fn bajo el lock de escritura. Es la frontera de exclusión
// mutua del motor: sync y cierre de ciclo mutan la colección solo por aquí.
func (s *ItemStore) Mutate(fn func(c Collection) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(Collection{s: s})
}

func (s *ItemStore) findLocked(key entity.ItemKey) *entity.Item {
	for _, it := range s.items {
		if it.Category == key.Category && it.Name == key.Name {
			return it
		}
	}
	return nil
}

func (s *ItemStore) hasCategoryLocked(name string) bool {
	for _, c := range s.categories {
		if c == name {
			return true
		}
	}
	return false
}

func (s *ItemStore) addCategoryLocked(name string) {
	if name == "" || s.hasCategoryLocked(name) {
		return
	}
	s.categories = append(s.categories, name)
}
