package metadata

import (
	"github.com/conduit-lang/propkit/internal/compiler/analysis"
)

// ExtractContainer converts one analysis result into container metadata
func ExtractContainer(result *analysis.Result) ContainerMetadata {
	meta := ContainerMetadata{
		Type:       result.Decl.Name,
		Line:       result.Decl.Location().Line,
		Emitted:    result.Emittable(),
		Properties: []PropertyMetadata{},
	}
	if !result.Emittable() {
		return meta
	}

	meta.ID = result.Container.ID.Expr
	meta.Key = result.Container.ID.Key
	for _, d := range result.Registry.Descriptors() {
		meta.Properties = append(meta.Properties, PropertyMetadata{
			ID:         d.ID.Expr,
			Key:        d.ID.Key,
			Name:       d.Name,
			Source:     d.Source.String(),
			Access:     d.Access.String(),
			Kind:       d.Kind.String(),
			Type:       d.Type,
			Member:     d.Ref.Member,
			MemberKind: d.Ref.Kind.String(),
		})
	}
	return meta
}

// ExtractFile builds a file report from the results of its declarations
func ExtractFile(path, sourceHash string, results []*analysis.Result) FileReport {
	report := FileReport{
		Path:       path,
		SourceHash: sourceHash,
		Containers: make([]ContainerMetadata, 0, len(results)),
	}
	for _, r := range results {
		report.Containers = append(report.Containers, ExtractContainer(r))
		for _, d := range r.Diagnostics {
			report.Diagnostics = append(report.Diagnostics, *d)
		}
	}
	return report
}
