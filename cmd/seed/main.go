// Command seed loads development fixture data into MongoDB. It reads
// tours.json, users.json, and reviews.json from the data directory and
// can wipe the collections first.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trailbound/trailbound-go/internal/config"
	"github.com/trailbound/trailbound-go/internal/domain/entity"
)

var collections = []string{
	entity.Tour{}.CollectionName(),
	entity.User{}.CollectionName(),
	entity.Review{}.CollectionName(),
}

func main() {
	var (
		dataDir  string
		doImport bool
		doDelete bool
	)

	root := &cobra.Command{
		Use:   "seed",
		Short: "Load development fixture data into MongoDB",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !doImport && !doDelete {
				return fmt.Errorf("nothing to do, pass --import and/or --delete")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Database.MongoURI()))
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer client.Disconnect(context.Background())

			db := client.Database(cfg.Database.Name)

			if doDelete {
				if err := deleteAll(ctx, db); err != nil {
					return err
				}
				fmt.Println("Data successfully deleted!")
			}
			if doImport {
				if err := importAll(ctx, db, dataDir); err != nil {
					return err
				}
				fmt.Println("Data successfully loaded!")
			}
			return nil
		},
	}

	root.Flags().StringVar(&dataDir, "dir", "dev-data", "directory holding the fixture JSON files")
	root.Flags().BoolVar(&doImport, "import", false, "import fixture data")
	root.Flags().BoolVar(&doDelete, "delete", false, "delete all fixture collections first")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func deleteAll(ctx context.Context, db *mongo.Database) error {
	for _, name := range collections {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("delete %s: %w", name, err)
		}
	}
	return nil
}

func importAll(ctx context.Context, db *mongo.Database, dir string) error {
	for _, name := range collections {
		docs, err := readFixture(filepath.Join(dir, name+".json"))
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			continue
		}
		if _, err := db.Collection(name).InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("import %s: %w", name, err)
		}
		fmt.Printf("Imported %d documents into %s\n", len(docs), name)
	}
	return nil
}

func readFixture(path string) ([]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var docs []map[string]any
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	now := time.Now().UTC()
	out := make([]any, 0, len(docs))
	for _, doc := range docs {
		if _, ok := doc["createdAt"]; !ok {
			doc["createdAt"] = now
		}
		out = append(out, doc)
	}
	return out, nil
}
