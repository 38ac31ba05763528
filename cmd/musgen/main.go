package main

import (
	"os"
	"reflect"
	"strings"

	musgen "github.com/mus-format/musgen-go/mus"
	genops "github.com/mus-format/musgen-go/options/generate"
	structops "github.com/mus-format/musgen-go/options/struct"
	"github.com/poiesic/paperit/core"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	// If we're in the core subpackage, cd up to project root
	if strings.HasSuffix(cwd, "core") {
		if err := os.Chdir(".."); err != nil {
			panic(err)
		}
	}
	g, err := musgen.NewCodeGenerator(
		genops.WithPkgPath("github.com/poiesic/paperit/core"),
	)
	if err != nil {
		panic(err)
	}

	g.AddDefinedType(reflect.TypeFor[core.ID]())

	err = g.AddStruct(reflect.TypeFor[core.Chunk](),
		structops.WithField(), // Id
		structops.WithField(), // DocID
		structops.WithField(), // Title
		structops.WithField(), // Authors
		structops.WithField(), // Year
		structops.WithField(), // Journal
		structops.WithField(), // DOI
		structops.WithField(), // Collection
		structops.WithField(), // Section
		structops.WithField(), // ChunkIndex
		structops.WithField(), // TokenEstimate
		structops.WithField(), // HasTaxonomyPattern
		structops.WithField(), // HasStructuredTable
		structops.WithField(), // Text
		structops.WithField(), // Vector
		structops.WithField()) // Metadata
	if err != nil {
		panic(err)
	}

	bs, err := g.Generate()
	if err != nil {
		panic(err)
	}

	err = os.WriteFile("./core/records_mus.gen.go", bs, 0644)
	if err != nil {
		panic(err)
	}
}
