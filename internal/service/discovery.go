package service

import "sort"

// DiscoveryMacro is the low-level discovery macro monitoring systems use to
// template one item per software name.
const DiscoveryMacro = "{#SOFTWARENAME}"

// DiscoveryEntry is one discovered software name
type DiscoveryEntry struct {
	SoftwareName string `json:"{#SOFTWARENAME}"`
}

// DiscoveryDocument is the low-level discovery payload: {"data": [{"{#SOFTWARENAME}": name}, ...]}
type DiscoveryDocument struct {
	Data []DiscoveryEntry `json:"data"`
}

// NewDiscoveryDocument builds a discovery payload with the names sorted alphabetically
func NewDiscoveryDocument(names []string) DiscoveryDocument {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)

	doc := DiscoveryDocument{Data: make([]DiscoveryEntry, 0, len(sorted))}
	for _, name := range sorted {
		doc.Data = append(doc.Data, DiscoveryEntry{SoftwareName: name})
	}
	return doc
}

// Names returns the software names of r sorted alphabetically
func (r AggregateResult) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
