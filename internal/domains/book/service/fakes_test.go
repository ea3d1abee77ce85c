package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"bookcatalog-backend/internal/domains/book/model"
	catalogmodel "bookcatalog-backend/internal/domains/catalog/model"
	catalogrepo "bookcatalog-backend/internal/domains/catalog/repository"
)

// fakeBookRepo keeps books, association links and favorites in memory,
// mirroring the error mapping of the real repository.
type fakeBookRepo struct {
	books  map[int64]*model.Book
	nextID int64

	genreLinks     map[int64][]int64
	characterLinks map[int64][]int64
	awardLinks     map[int64][]int64

	favorites map[int64]*favoriteEntry
	nextFavID int64

	searchItems []model.BookListItem
	searchTotal int64
	createErr   error
}

type favoriteEntry struct {
	userID    int64
	bookID    int64
	createdAt time.Time
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{
		books:          map[int64]*model.Book{},
		nextID:         1,
		genreLinks:     map[int64][]int64{},
		characterLinks: map[int64][]int64{},
		awardLinks:     map[int64][]int64{},
		favorites:      map[int64]*favoriteEntry{},
		nextFavID:      1,
	}
}

func (r *fakeBookRepo) SearchBooks(_ context.Context, _ *model.BookSearchParams) ([]model.BookListItem, error) {
	items := make([]model.BookListItem, len(r.searchItems))
	copy(items, r.searchItems)
	return items, nil
}

func (r *fakeBookRepo) CountBooks(_ context.Context, _ *model.BookSearchParams) (int64, error) {
	return r.searchTotal, nil
}

func (r *fakeBookRepo) GetBookByID(_ context.Context, id int64) (*model.Book, error) {
	if b, ok := r.books[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, model.ErrBookNotFound
}

func (r *fakeBookRepo) BookExists(_ context.Context, id int64) (bool, error) {
	_, ok := r.books[id]
	return ok, nil
}

func (r *fakeBookRepo) CheckISBNExists(_ context.Context, isbn string) (bool, error) {
	for _, b := range r.books {
		if b.ISBN == isbn {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookRepo) CheckISBNExistsExcept(_ context.Context, isbn string, excludeID int64) (bool, error) {
	for _, b := range r.books {
		if b.ISBN == isbn && b.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookRepo) CreateBook(_ context.Context, book *model.Book) (*model.Book, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, b := range r.books {
		if b.ISBN == book.ISBN {
			return nil, model.ErrISBNExists
		}
	}
	stored := *book
	stored.ID = r.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.books[stored.ID] = &stored
	r.nextID++
	copied := stored
	return &copied, nil
}

func (r *fakeBookRepo) UpdateBook(_ context.Context, book *model.Book) error {
	if _, ok := r.books[book.ID]; !ok {
		return model.ErrBookNotFound
	}
	copied := *book
	copied.UpdatedAt = time.Now()
	r.books[book.ID] = &copied
	return nil
}

func (r *fakeBookRepo) DeleteBook(_ context.Context, id int64) error {
	if _, ok := r.books[id]; !ok {
		return model.ErrBookNotFound
	}
	delete(r.books, id)
	delete(r.genreLinks, id)
	delete(r.characterLinks, id)
	delete(r.awardLinks, id)
	for favID, f := range r.favorites {
		if f.bookID == id {
			delete(r.favorites, favID)
		}
	}
	return nil
}

func (r *fakeBookRepo) DeleteBooksByIDs(_ context.Context, ids []int64) (int64, error) {
	var deleted int64
	for _, id := range ids {
		if _, ok := r.books[id]; ok {
			delete(r.books, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeBookRepo) DeleteBooksByFilter(_ context.Context, _ *model.BookSearchParams) (int64, error) {
	deleted := int64(len(r.books))
	r.books = map[int64]*model.Book{}
	return deleted, nil
}

func (r *fakeBookRepo) GetBookGenres(_ context.Context, bookID int64) ([]catalogmodel.Genre, error) {
	genres := make([]catalogmodel.Genre, 0, len(r.genreLinks[bookID]))
	for _, id := range r.genreLinks[bookID] {
		genres = append(genres, catalogmodel.Genre{ID: id, Name: fmt.Sprintf("genre-%d", id)})
	}
	return genres, nil
}

func (r *fakeBookRepo) GetBookCharacters(_ context.Context, bookID int64) ([]catalogmodel.Character, error) {
	characters := make([]catalogmodel.Character, 0, len(r.characterLinks[bookID]))
	for _, id := range r.characterLinks[bookID] {
		characters = append(characters, catalogmodel.Character{ID: id, Name: fmt.Sprintf("character-%d", id)})
	}
	return characters, nil
}

func (r *fakeBookRepo) GetBookAwards(_ context.Context, bookID int64) ([]catalogmodel.Award, error) {
	awards := make([]catalogmodel.Award, 0, len(r.awardLinks[bookID]))
	for _, id := range r.awardLinks[bookID] {
		awards = append(awards, catalogmodel.Award{ID: id, Name: fmt.Sprintf("award-%d", id)})
	}
	return awards, nil
}

func (r *fakeBookRepo) SetBookGenres(_ context.Context, bookID int64, genreIDs []int64) error {
	r.genreLinks[bookID] = append([]int64(nil), genreIDs...)
	return nil
}

func (r *fakeBookRepo) SetBookCharacters(_ context.Context, bookID int64, characterIDs []int64) error {
	r.characterLinks[bookID] = append([]int64(nil), characterIDs...)
	return nil
}

func (r *fakeBookRepo) SetBookAwards(_ context.Context, bookID int64, awardIDs []int64) error {
	r.awardLinks[bookID] = append([]int64(nil), awardIDs...)
	return nil
}

func (r *fakeBookRepo) IsFavorited(_ context.Context, userID, bookID int64) (bool, error) {
	for _, f := range r.favorites {
		if f.userID == userID && f.bookID == bookID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookRepo) ListFavorites(_ context.Context, userID int64) ([]model.FavoriteRow, error) {
	var rows []model.FavoriteRow
	for id, f := range r.favorites {
		if f.userID != userID {
			continue
		}
		book, ok := r.books[f.bookID]
		if !ok {
			continue
		}
		rows = append(rows, model.FavoriteRow{
			FavoriteID:   id,
			FavoritedAt:  f.createdAt,
			BookListItem: listItemFor(book),
		})
	}
	// Newest first, like the real listing.
	sort.Slice(rows, func(i, j int) bool { return rows[i].FavoriteID > rows[j].FavoriteID })
	return rows, nil
}

func (r *fakeBookRepo) GetFavorite(_ context.Context, userID, favoriteID int64) (*model.FavoriteRow, error) {
	f, ok := r.favorites[favoriteID]
	if !ok || f.userID != userID {
		return nil, model.ErrFavoriteNotFound
	}
	book, ok := r.books[f.bookID]
	if !ok {
		return nil, model.ErrFavoriteNotFound
	}
	row := model.FavoriteRow{
		FavoriteID:   favoriteID,
		FavoritedAt:  f.createdAt,
		BookListItem: listItemFor(book),
	}
	return &row, nil
}

func (r *fakeBookRepo) InsertFavorite(_ context.Context, userID, bookID int64) (int64, error) {
	if _, ok := r.books[bookID]; !ok {
		return 0, model.ErrFavoriteBookGone
	}
	for _, f := range r.favorites {
		if f.userID == userID && f.bookID == bookID {
			return 0, model.ErrAlreadyFavorited
		}
	}
	id := r.nextFavID
	r.nextFavID++
	r.favorites[id] = &favoriteEntry{userID: userID, bookID: bookID, createdAt: time.Now()}
	return id, nil
}

func (r *fakeBookRepo) DeleteFavorite(_ context.Context, userID, favoriteID int64) error {
	if f, ok := r.favorites[favoriteID]; ok && f.userID == userID {
		delete(r.favorites, favoriteID)
		return nil
	}
	return model.ErrFavoriteNotFound
}

func (r *fakeBookRepo) DeleteFavoriteByBook(_ context.Context, userID, bookID int64) (bool, error) {
	for id, f := range r.favorites {
		if f.userID == userID && f.bookID == bookID {
			delete(r.favorites, id)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookRepo) SetCoverImage(_ context.Context, bookID int64, key *string) error {
	b, ok := r.books[bookID]
	if !ok {
		return model.ErrBookNotFound
	}
	b.CoverImage = key
	b.UpdatedAt = time.Now()
	return nil
}

// listItemFor projects a stored book into the favorites list shape. Every
// row in a favorites listing is favorited by construction.
func listItemFor(b *model.Book) model.BookListItem {
	return model.BookListItem{
		ID:              b.ID,
		Title:           b.Title,
		ISBN:            b.ISBN,
		AuthorName:      fmt.Sprintf("author-%d", b.AuthorID),
		Price:           b.Price,
		PublicationDate: b.PublicationDate,
		PageCount:       b.PageCount,
		CoverImage:      b.CoverImage,
		CoverImageURL:   b.CoverImageURL,
		AverageRating:   b.AverageRating,
		NumRatings:      b.NumRatings,
		BookFormat:      b.BookFormat,
		IsFavorited:     true,
		CreatedAt:       b.CreatedAt,
	}
}

// fakeCatalogRepo implements only the lookups the book services touch;
// anything else panics through the embedded nil interface.
type fakeCatalogRepo struct {
	catalogrepo.RepositoryInterface
	authors    map[int64]*catalogmodel.AuthorResponse
	categories map[int64]*catalogmodel.CategoryResponse
	publishers map[int64]*catalogmodel.PublisherResponse
	languages  map[int64]*catalogmodel.Language
	series     map[int64]*catalogmodel.SeriesResponse
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		authors:    map[int64]*catalogmodel.AuthorResponse{},
		categories: map[int64]*catalogmodel.CategoryResponse{},
		publishers: map[int64]*catalogmodel.PublisherResponse{},
		languages:  map[int64]*catalogmodel.Language{},
		series:     map[int64]*catalogmodel.SeriesResponse{},
	}
}

func (r *fakeCatalogRepo) GetAuthor(_ context.Context, id int64) (*catalogmodel.AuthorResponse, error) {
	if a, ok := r.authors[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, catalogmodel.ErrAuthorNotFound
}

func (r *fakeCatalogRepo) GetCategory(_ context.Context, id int64) (*catalogmodel.CategoryResponse, error) {
	if c, ok := r.categories[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, catalogmodel.ErrCategoryNotFound
}

func (r *fakeCatalogRepo) GetPublisher(_ context.Context, id int64) (*catalogmodel.PublisherResponse, error) {
	if p, ok := r.publishers[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, catalogmodel.ErrPublisherNotFound
}

func (r *fakeCatalogRepo) GetLanguage(_ context.Context, id int64) (*catalogmodel.Language, error) {
	if l, ok := r.languages[id]; ok {
		copied := *l
		return &copied, nil
	}
	return nil, catalogmodel.ErrLanguageNotFound
}

func (r *fakeCatalogRepo) GetSeries(_ context.Context, id int64) (*catalogmodel.SeriesResponse, error) {
	if s, ok := r.series[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, catalogmodel.ErrSeriesNotFound
}

// fakeResolver hands out a stable entity per natural key, like the real
// get-or-create resolver.
type fakeResolver struct {
	nextID     int64
	authors    map[string]*catalogmodel.Author
	categories map[string]*catalogmodel.Category
	publishers map[string]*catalogmodel.Publisher
	languages  map[string]*catalogmodel.Language
	series     map[string]*catalogmodel.Series
	genres     map[string]*catalogmodel.Genre
	characters map[string]*catalogmodel.Character
	awards     map[string]*catalogmodel.Award

	genreErr error
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		nextID:     1,
		authors:    map[string]*catalogmodel.Author{},
		categories: map[string]*catalogmodel.Category{},
		publishers: map[string]*catalogmodel.Publisher{},
		languages:  map[string]*catalogmodel.Language{},
		series:     map[string]*catalogmodel.Series{},
		genres:     map[string]*catalogmodel.Genre{},
		characters: map[string]*catalogmodel.Character{},
		awards:     map[string]*catalogmodel.Award{},
	}
}

func (f *fakeResolver) id() int64 {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeResolver) Author(_ context.Context, name string) (*catalogmodel.Author, error) {
	if a, ok := f.authors[name]; ok {
		return a, nil
	}
	a := &catalogmodel.Author{ID: f.id(), Name: name}
	f.authors[name] = a
	return a, nil
}

func (f *fakeResolver) Category(_ context.Context, name string) (*catalogmodel.Category, error) {
	if c, ok := f.categories[name]; ok {
		return c, nil
	}
	c := &catalogmodel.Category{ID: f.id(), Name: name}
	f.categories[name] = c
	return c, nil
}

func (f *fakeResolver) Publisher(_ context.Context, name string) (*catalogmodel.Publisher, error) {
	if p, ok := f.publishers[name]; ok {
		return p, nil
	}
	p := &catalogmodel.Publisher{ID: f.id(), Name: name}
	f.publishers[name] = p
	return p, nil
}

func (f *fakeResolver) Language(_ context.Context, code, name string) (*catalogmodel.Language, error) {
	if l, ok := f.languages[code]; ok {
		return l, nil
	}
	l := &catalogmodel.Language{ID: f.id(), Code: code, Name: name}
	f.languages[code] = l
	return l, nil
}

func (f *fakeResolver) Series(_ context.Context, name string) (*catalogmodel.Series, error) {
	if s, ok := f.series[name]; ok {
		return s, nil
	}
	s := &catalogmodel.Series{ID: f.id(), Name: name}
	f.series[name] = s
	return s, nil
}

func (f *fakeResolver) Genre(_ context.Context, name string) (*catalogmodel.Genre, error) {
	if f.genreErr != nil {
		return nil, f.genreErr
	}
	if g, ok := f.genres[name]; ok {
		return g, nil
	}
	g := &catalogmodel.Genre{ID: f.id(), Name: name}
	f.genres[name] = g
	return g, nil
}

func (f *fakeResolver) Character(_ context.Context, name string) (*catalogmodel.Character, error) {
	if c, ok := f.characters[name]; ok {
		return c, nil
	}
	c := &catalogmodel.Character{ID: f.id(), Name: name}
	f.characters[name] = c
	return c, nil
}

func (f *fakeResolver) Award(_ context.Context, name string, year *int) (*catalogmodel.Award, error) {
	key := name
	if year != nil {
		key = fmt.Sprintf("%s|%d", name, *year)
	}
	if a, ok := f.awards[key]; ok {
		return a, nil
	}
	a := &catalogmodel.Award{ID: f.id(), Name: name, Year: year}
	f.awards[key] = a
	return a, nil
}

// fakeCache round-trips values through JSON like the Redis
// implementation and records the delete patterns it was given.
type fakeCache struct {
	entries         map[string][]byte
	deletedPatterns []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	data, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

func (c *fakeCache) DeletePattern(_ context.Context, pattern string) error {
	c.deletedPatterns = append(c.deletedPatterns, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}

func (c *fakeCache) Ping(_ context.Context) error { return nil }

func (c *fakeCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := c.entries[key]
	return ok, nil
}

func (c *fakeCache) Expire(_ context.Context, _ string, _ time.Duration) error { return nil }

type fakeStorage struct {
	objects         map[string][]byte
	deletedPrefixes []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.objects[key] = append([]byte(nil), data...)
	return s.PublicURL(key), nil
}

func (s *fakeStorage) Download(_ context.Context, key string) ([]byte, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}
	return data, nil
}

func (s *fakeStorage) DeleteByPrefix(_ context.Context, prefix string) error {
	s.deletedPrefixes = append(s.deletedPrefixes, prefix)
	for k := range s.objects {
		if strings.HasPrefix(k, prefix) {
			delete(s.objects, k)
		}
	}
	return nil
}

func (s *fakeStorage) PublicURL(key string) string {
	return "https://cdn.example.com/book-covers/" + key
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
}

func (e *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	e.tasks = append(e.tasks, task)
	return &asynq.TaskInfo{ID: fmt.Sprintf("task-%d", len(e.tasks))}, nil
}

func (e *fakeEnqueuer) taskTypes() []string {
	types := make([]string, len(e.tasks))
	for i, t := range e.tasks {
		types[i] = t.Type()
	}
	return types
}
