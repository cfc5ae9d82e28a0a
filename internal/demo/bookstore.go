// Package demo wires a small bookstore registry that exercises both discovery
// channels and every provider lookup tier.
package demo

import (
	"context"
	"reflect"

	"github.com/anvil-platform/opwire/internal/assembly"
	"github.com/anvil-platform/opwire/internal/builders"
	"github.com/anvil-platform/opwire/internal/marker"
	"github.com/anvil-platform/opwire/internal/registry"
)

// FeaturedKind is a custom qualifier marker carried by the featured builder.
const FeaturedKind marker.Kind = "bookstore.anvil.dev/marker.Featured"

// ConfigType is the declaring type recorded on the bookstore factory methods.
const ConfigType = "demo.BookstoreConfig"

var resolverBuilderType = reflect.TypeOf((*builders.ResolverBuilder)(nil)).Elem()

type Book struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// BookService lists its operations explicitly and asks for the annotated
// builder plus the catalog's public builder.
type BookService struct {
	books []Book
}

func (s *BookService) Markers() marker.Set {
	return marker.NewSet(
		marker.Tag(marker.OperationSource),
		marker.Marker{Kind: marker.Operations, Attributes: marker.Attributes{
			marker.AttrQuery:    []string{"books", "book"},
			marker.AttrMutation: []string{"addBook"},
		}},
		marker.Providers(
			marker.ProviderAttributes(builders.AnnotatedType),
			marker.ProviderAttributes(builders.PublicType, marker.QualifierValue("catalogPublic")),
		),
	)
}

func (s *BookService) Books() []Book { return s.books }

func (s *BookService) Book(id string) (Book, bool) {
	for _, b := range s.books {
		if b.ID == id {
			return b, true
		}
	}
	return Book{}, false
}

func (s *BookService) AddBook(title string) Book {
	b := Book{ID: title, Title: title}
	s.books = append(s.books, b)
	return b
}

// ReviewService asks for whichever builder carries the featured marker.
type ReviewService struct{}

func (ReviewService) Markers() marker.Set {
	return marker.NewSet(
		marker.Tag(marker.OperationSource),
		marker.Provider(resolverBuilderType, marker.QualifierType(FeaturedKind)),
	)
}

func (ReviewService) Reviews(bookID string) []string { return nil }

func (ReviewService) AddReview(bookID, text string) error { return nil }

// StatsService requests no providers and is built by the global builders.
type StatsService struct{}

func (StatsService) Markers() marker.Set {
	return marker.NewSet(
		marker.Tag(marker.OperationSource),
		marker.Marker{Kind: marker.Operations, Attributes: marker.Attributes{
			marker.AttrQuery: []string{"bestsellers"},
		}},
	)
}

func (StatsService) Bestsellers() []Book { return nil }

func (StatsService) GetTotalSales() int { return 0 }

// DraftService is prototype scoped and therefore left out of the schema.
type DraftService struct{}

func (DraftService) Markers() marker.Set {
	return marker.NewSet(marker.Tag(marker.OperationSource))
}

func (DraftService) Drafts() []Book { return nil }

// AuthorService is declared by a factory method that asks for the bean builder.
type AuthorService struct{}

func (AuthorService) GetAuthors() []string { return nil }

func (AuthorService) GetAuthorCount() int { return 0 }

// InventoryService is declared by a factory method asking for the public
// builder qualified "legacy", which only factory metadata can satisfy.
type InventoryService struct{}

func (InventoryService) Stock(bookID string) int { return 0 }

func (InventoryService) UpdateStock(bookID string, n int) error { return nil }

type featuredBuilder struct {
	public builders.Public
}

func (*featuredBuilder) Markers() marker.Set {
	return marker.NewSet(marker.Tag(FeaturedKind))
}

func (b *featuredBuilder) Operations(source any) []builders.Operation {
	return b.public.Operations(source)
}

// NewRegistry populates a container with the bookstore components and the
// default resolver builders.
func NewRegistry(ctx context.Context, basePackages []string) (*registry.Container, error) {
	c := registry.NewContainer()

	components := []struct {
		name     string
		instance any
		opts     []registry.Option
	}{
		{"bookService", &BookService{books: []Book{{ID: "1", Title: "The Go Programming Language"}}}, nil},
		{"reviewService", ReviewService{}, nil},
		{"statsService", StatsService{}, nil},
		{"draftService", DraftService{}, []registry.Option{registry.WithScope(registry.ScopePrototype)}},
		{"catalogPublic", &builders.Public{BasePackages: basePackages}, nil},
		{"featuredBuilder", &featuredBuilder{}, nil},
		{"legacyPublic", &builders.Public{}, []registry.Option{
			registry.NotCandidate(),
			registry.FromFactory(registry.NewFactoryMethod(ConfigType, "legacyPublic", builders.PublicType,
				marker.Qualified("legacy"))),
		}},
		{"authorService", AuthorService{}, []registry.Option{
			registry.FromFactory(registry.NewFactoryMethod(ConfigType, "authorService", reflect.TypeOf(AuthorService{}),
				marker.Tag(marker.OperationSource),
				marker.Provider(builders.BeanType))),
		}},
		{"inventoryService", InventoryService{}, []registry.Option{
			registry.FromFactory(registry.NewFactoryMethod(ConfigType, "inventoryService", reflect.TypeOf(InventoryService{}),
				marker.Tag(marker.OperationSource),
				marker.Provider(builders.PublicType, marker.QualifierValue("legacy")))),
		}},
	}
	for _, comp := range components {
		if err := c.Register(comp.name, comp.instance, comp.opts...); err != nil {
			return nil, err
		}
	}

	if _, err := builders.RegisterDefaults(ctx, c, basePackages); err != nil {
		return nil, err
	}
	return c, nil
}

// Hooks adds the bean builder to the global resolver builders, so sources
// without providers also expose their getters.
func Hooks() assembly.Hooks {
	return assembly.Hooks{
		ResolverBuilders: func(defaults []any) []any {
			return append(defaults, &builders.Bean{})
		},
	}
}
