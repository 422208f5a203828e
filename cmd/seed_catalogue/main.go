// seed_catalogue génère un script SQL pour peupler le catalogue produits à
// partir de l'export CSV de l'ancien outil de caisse (encodé ISO-8859-1,
// séparateur point-virgule: categorie;nom;prix_ttc).
//
// Usage: go run ./cmd/seed_catalogue [chemin/catalogue.csv]
// Par défaut cherche catalogue.csv dans le répertoire courant.
// Écrit: internal/infrastructure/postgres/migrations/002_seed_catalogue.sql
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type produit struct {
	categorie string
	nom       string
	prixTTC   decimal.Decimal
}

func main() {
	csvPath := "catalogue.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ouvrir le CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	// L'export historique est en Latin-1: les accents (Émeraude, Couette...)
	// seraient corrompus sans décodage explicite.
	r := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	r.Comma = ';'
	r.FieldsPerRecord = 3

	records, err := r.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Lire le CSV: %v\n", err)
		os.Exit(1)
	}

	var produits []produit
	for i, rec := range records {
		categorie := strings.TrimSpace(rec[0])
		nom := strings.TrimSpace(rec[1])
		prixBrut := strings.TrimSpace(rec[2])

		// Ligne d'en-tête éventuelle
		if i == 0 && strings.EqualFold(categorie, "categorie") {
			continue
		}
		if nom == "" {
			continue
		}

		// L'export utilise la virgule décimale française
		prix, err := decimal.NewFromString(strings.ReplaceAll(prixBrut, ",", "."))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ligne %d: prix illisible %q, ignorée\n", i+1, prixBrut)
			continue
		}
		if prix.IsNegative() {
			fmt.Fprintf(os.Stderr, "Ligne %d: prix négatif, ignorée\n", i+1)
			continue
		}

		produits = append(produits, produit{categorie: categorie, nom: nom, prixTTC: prix})
	}

	if len(produits) == 0 {
		fmt.Fprintln(os.Stderr, "Aucun produit valide dans le CSV")
		os.Exit(1)
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_catalogue.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Créer le fichier: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Catalogue produits MYCONFORT\n")
	out.WriteString("-- Généré depuis catalogue.csv (export caisse, ISO-8859-1)\n\n")
	out.WriteString("INSERT INTO products (id, name, category, price_ttc) VALUES\n")
	for i, p := range produits {
		sep := ","
		if i == len(produits)-1 {
			sep = ""
		}
		fmt.Fprintf(out, "  (gen_random_uuid(), '%s', '%s', %s)%s\n",
			escapeSQL(p.nom), escapeSQL(p.categorie), p.prixTTC.StringFixed(2), sep)
	}
	out.WriteString("ON CONFLICT DO NOTHING;\n")

	fmt.Printf("Généré %s: %d produits\n", outPath, len(produits))
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
