// seed carga categorías y productos desde un CSV al almacenamiento configurado
// (STORAGE_DRIVER / DB_*), pasando por los casos de uso del catálogo.
//
// Uso: go run ./cmd/seed [-latin1] [-sep ';'] catalogo.csv
//
// Cabecera: categoria,embalagem,tamanho,produto,unidade,preco,estoque,minimo,maximo
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/jhoicas/estoque-server/internal/application/usecase"
	"github.com/jhoicas/estoque-server/internal/infrastructure/storage"
	"github.com/jhoicas/estoque-server/pkg/config"
	"github.com/jhoicas/estoque-server/pkg/logger"
)

func main() {
	latin1 := flag.Bool("latin1", false, "el archivo está en ISO-8859-1")
	sep := flag.String("sep", ",", "separador de campos")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed [-latin1] [-sep ';'] archivo.csv")
		os.Exit(2)
	}
	comma, _ := utf8.DecodeRuneInString(*sep)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	ctx := context.Background()
	store, closeStore, err := storage.Open(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir almacenamiento: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	loader := NewLoader(
		usecase.NewCategoryUseCase(store.Categories(), store, log),
		usecase.NewProductUseCase(store.Products(), log),
		*latin1, comma,
	)
	res, err := loader.Load(ctx, f)
	if err != nil {
		log.Error().Err(err).Msg("carga interrumpida")
		closeStore()
		os.Exit(1)
	}
	log.Info().
		Int("categories", res.CategoriesCreated).
		Int("products", res.ProductsCreated).
		Int("skipped", res.Skipped).
		Msg("carga completada")
}
