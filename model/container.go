package model

import (
	"fmt"
	"sort"
)

// ContainerTag enumerates the closed set of container kinds.
type ContainerTag int

const (
	KindStruct ContainerTag = iota
	KindClass
	KindInterface
	KindEnum
	KindObject
	KindImpl
	KindFunction
	KindModule
	KindResource
	KindDataSource
	KindVariable
	KindOutput
	KindSection
)

// ContainerKind is a language-agnostic container kind. TraitName is only set
// for KindImpl, TypeName for KindResource and KindDataSource, Level for
// KindSection.
type ContainerKind struct {
	Tag       ContainerTag
	TraitName string
	TypeName  string
	Level     int
}

func Struct() ContainerKind    { return ContainerKind{Tag: KindStruct} }
func Class() ContainerKind     { return ContainerKind{Tag: KindClass} }
func Interface() ContainerKind { return ContainerKind{Tag: KindInterface} }
func Enum() ContainerKind      { return ContainerKind{Tag: KindEnum} }
func Object() ContainerKind    { return ContainerKind{Tag: KindObject} }
func Function() ContainerKind  { return ContainerKind{Tag: KindFunction} }
func Module() ContainerKind    { return ContainerKind{Tag: KindModule} }
func Variable() ContainerKind  { return ContainerKind{Tag: KindVariable} }
func Output() ContainerKind    { return ContainerKind{Tag: KindOutput} }

// Impl is an implementation block, optionally of a trait.
func Impl(traitName string) ContainerKind {
	return ContainerKind{Tag: KindImpl, TraitName: traitName}
}

// Resource is a declarative resource block of the given type.
func Resource(typeName string) ContainerKind {
	return ContainerKind{Tag: KindResource, TypeName: typeName}
}

// DataSource is a declarative data block of the given type.
func DataSource(typeName string) ContainerKind {
	return ContainerKind{Tag: KindDataSource, TypeName: typeName}
}

// Heading is a document section at the given heading level.
func Heading(level int) ContainerKind {
	return ContainerKind{Tag: KindSection, Level: level}
}

// HasMembers reports whether containers of this kind may carry members.
func (k ContainerKind) HasMembers() bool {
	switch k.Tag {
	case KindStruct, KindClass, KindInterface, KindEnum, KindObject, KindImpl:
		return true
	}
	return false
}

// String renders the kind as a short label for display.
func (k ContainerKind) String() string {
	switch k.Tag {
	case KindStruct:
		return "struct"
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindObject:
		return "object"
	case KindImpl:
		if k.TraitName != "" {
			return fmt.Sprintf("impl %s for", k.TraitName)
		}
		return "impl"
	case KindFunction:
		return "fn"
	case KindModule:
		return "module"
	case KindResource:
		return fmt.Sprintf("resource %q", k.TypeName)
	case KindDataSource:
		return fmt.Sprintf("data %q", k.TypeName)
	case KindVariable:
		return "variable"
	case KindOutput:
		return "output"
	case KindSection:
		return fmt.Sprintf("h%d", k.Level)
	default:
		return fmt.Sprintf("ContainerTag(%d)", int(k.Tag))
	}
}

// MemberKind is the kind of a container member.
type MemberKind int

const (
	MemberField MemberKind = iota
	MemberMethod
	MemberProperty
)

func (k MemberKind) String() string {
	switch k {
	case MemberMethod:
		return "method"
	case MemberProperty:
		return "property"
	default:
		return "field"
	}
}

// SemanticContainer is the UI-facing form of an extracted container.
// SectionIndices point into File.Sections. Checked and Partial are caches
// maintained by the selection engine.
type SemanticContainer struct {
	Kind           ContainerKind
	Name           string
	StartLine      int
	EndLine        int
	SectionIndices []int
	Members        []SemanticMember
	Checked        bool
	Partial        bool
}

// SemanticMember is the UI-facing form of a container member.
type SemanticMember struct {
	Kind           MemberKind
	Name           string
	StartLine      int
	EndLine        int
	SectionIndices []int
	Checked        bool
	Partial        bool
}

// AllSectionIndices returns the container's own indices, or the ordered
// union of its members' indices when it has members.
func (c SemanticContainer) AllSectionIndices() []int {
	if len(c.Members) == 0 {
		return c.SectionIndices
	}
	seen := make(map[int]struct{})
	var out []int
	for _, m := range c.Members {
		for _, i := range m.SectionIndices {
			if _, ok := seen[i]; ok {
				continue
			}
			seen[i] = struct{}{}
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}
