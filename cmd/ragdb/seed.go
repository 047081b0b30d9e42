package main

import (
	"context"
	"fmt"
	"log"

	"github.com/orneryd/ragdb/pkg/service"
	"github.com/orneryd/ragdb/pkg/service/dto"
)

// sampleDocuments restores the demo-library startup hook from
// original_source/main.py's create_sample_library, dropped by the
// distillation: three short sample documents ingested into a fresh library
// on boot. The original reads these from data/*.txt on disk; since this
// system keeps no on-disk state, the sample text is embedded here instead.
var sampleDocuments = []struct {
	title   string
	content string
}{
	{
		title:   "Sample Document 0",
		content: "Cristiano Ronaldo is a Portuguese professional footballer. He plays as a forward and has captained the Portugal national team. Ronaldo has won five Ballon d'Or awards.",
	},
	{
		title:   "Sample Document 1",
		content: "Lionel Messi is an Argentine professional footballer. He plays as a forward and is the captain of the Argentina national team. Messi has won eight Ballon d'Or awards.",
	},
	{
		title:   "Sample Document 2",
		content: "Rafael Nadal is a Spanish professional tennis player. He is known for his dominance on clay courts, particularly at the French Open. Nadal has won 22 Grand Slam singles titles.",
	},
}

// seedDemoLibrary creates "Example Library" and ingests sampleDocuments into
// it, logging each created id the way the original's startup hook did.
func seedDemoLibrary(ctx context.Context, svc *service.Service) error {
	lib, err := svc.CreateLibrary(ctx, dto.CreateLibraryRequest{
		Name:        "Example Library",
		Description: "A library for testing",
	})
	if err != nil {
		return fmt.Errorf("create demo library: %w", err)
	}
	log.Printf("demo library created with id: %s", lib.ID)

	for i, sample := range sampleDocuments {
		doc, err := svc.CreateDocument(ctx, dto.CreateDocumentRequest{
			LibraryID: lib.ID,
			Title:     sample.title,
			Content:   sample.content,
		})
		if err != nil {
			return fmt.Errorf("create demo document %d: %w", i, err)
		}
		log.Printf("demo document %d created with id: %s", i, doc.ID)
	}
	return nil
}
