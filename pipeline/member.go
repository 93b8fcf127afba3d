package pipeline

import (
	"github.com/alchemy-lang/semantic/diagnostics"
	"github.com/alchemy-lang/semantic/resolver"
	"github.com/alchemy-lang/semantic/sourcefile"
	"github.com/alchemy-lang/semantic/syntax"
	"github.com/alchemy-lang/semantic/token"
	"github.com/alchemy-lang/semantic/typeinfo"
	"github.com/alchemy-lang/semantic/typetable"
)

// MemberJob is phase 3: resolve every field, method, property, indexer and
// constructor signature declared by this file's types against the now
// fully-built base-type graph (spec §4.7). This is the only phase allowed
// to assume GetBaseClass/GatherFieldInfos return complete chains, since
// Base has already run for every file.
type MemberJob struct {
	Table *typetable.Table
}

// Run executes Member for one file.
func (j *MemberJob) Run(f *sourcefile.SourceFile) {
	for _, ti := range f.DeclaredTypes() {
		decl, ok := ti.SyntaxNode.(*syntax.TypeDeclSyntax)
		if !ok {
			continue
		}
		j.resolveMembers(f, ti, decl)
	}
}

func (j *MemberJob) resolveMembers(f *sourcefile.SourceFile, ti *typeinfo.TypeInfo, decl *syntax.TypeDeclSyntax) {
	r := resolver.New(j.Table, f.Path(), f.Namespace(), f.Usings(), f.Sink())
	if len(ti.GenericArguments) > 0 {
		r.PushGenericScope(ti.GenericArguments)
		defer r.PopGenericScope()
	}

	names := make(map[string]bool, len(decl.Fields)+len(decl.Methods)+len(decl.Properties))
	reportDuplicate := func(name string, span syntax.Span) bool {
		if names[name] {
			f.Sink().Report(diagnostics.ErrDuplicateIdentifierInScope, toDiagSpan(span), name)
			return true
		}
		names[name] = true
		return false
	}

	for _, fs := range decl.Fields {
		j.resolveField(f, r, ti, fs, reportDuplicate)
	}
	for _, ms := range decl.Methods {
		if reportDuplicate(ms.Name, ms.Span) {
			continue
		}
		j.resolveMethod(f, r, ti, ms)
	}
	for _, ps := range decl.Properties {
		if reportDuplicate(ps.Name, ps.Span) {
			continue
		}
		j.resolveProperty(f, r, ti, ps)
	}
	for _, is := range decl.Indexers {
		j.resolveIndexer(f, r, ti, is)
	}
	for _, cs := range decl.Ctors {
		j.resolveConstructor(f, r, ti, cs)
	}
}

func (j *MemberJob) resolveField(f *sourcefile.SourceFile, r *resolver.Resolver, ti *typeinfo.TypeInfo, fs *syntax.FieldSyntax, reportDuplicate func(string, syntax.Span) bool) {
	resolved, ok := r.TryResolveType(fs.Type)
	if !ok {
		return
	}
	if resolved.Flags.Has(typeinfo.IsRef) {
		f.Sink().Report(diagnostics.ErrTypeCannotBeRef, toDiagSpan(fs.Span), "")
		return
	}

	mods, valid := validateFieldModifiers(f, fs.Modifiers)
	if !valid {
		return
	}

	for _, name := range fs.Names {
		if reportDuplicate(name, fs.Span) {
			continue
		}
		field := &typeinfo.FieldInfo{
			Type:          resolved,
			Name:          name,
			DeclaringType: ti,
			Modifiers:     mods,
			Visibility:    visibilityFromModifiers(f, fs.Modifiers),
		}
		ti.Fields = append(ti.Fields, field)
	}
}

func validateFieldModifiers(f *sourcefile.SourceFile, mods []syntax.ModifierToken) (typeinfo.FieldModifier, bool) {
	var out typeinfo.FieldModifier
	var readonly, static, constM bool
	for _, m := range mods {
		switch m.Kind {
		case token.ReadOnlyKeyword:
			if readonly {
				f.Sink().Report(diagnostics.ErrMultipleModifiers, toDiagSpan(m.Span), "readonly")
				return 0, false
			}
			readonly = true
			out |= typeinfo.FieldReadonly
		case token.StaticKeyword:
			if static {
				f.Sink().Report(diagnostics.ErrMultipleModifiers, toDiagSpan(m.Span), "static")
				return 0, false
			}
			static = true
			out |= typeinfo.FieldStatic
		case token.ConstKeyword:
			if constM {
				f.Sink().Report(diagnostics.ErrMultipleModifiers, toDiagSpan(m.Span), "const")
				return 0, false
			}
			constM = true
			out |= typeinfo.FieldConst
		case token.SealedKeyword, token.AbstractKeyword, token.OverrideKeyword, token.VirtualKeyword:
			f.Sink().Report(diagnostics.ErrInvalidModifierForFieldDeclaration, toDiagSpan(m.Span), "")
			return 0, false
		}
	}
	if static && constM {
		f.Sink().Report(diagnostics.ErrStaticOrConst, diagnostics.Span{}, "")
		return 0, false
	}
	if readonly && constM {
		f.Sink().Report(diagnostics.ErrReadonlyOrConst, diagnostics.Span{}, "")
		return 0, false
	}
	return out, true
}

func (j *MemberJob) resolveMethod(f *sourcefile.SourceFile, r *resolver.Resolver, ti *typeinfo.TypeInfo, ms *syntax.MethodSyntax) {
	returnType, ok := r.TryResolveType(ms.ReturnType)
	if !ok {
		return
	}
	mods, valid := validateMethodModifiers(f, ms.Modifiers)
	if !valid {
		return
	}
	params, ok := j.resolveParameters(f, r, ms.Parameters, true)
	if !ok {
		return
	}

	method := &typeinfo.MethodInfo{
		DeclaringType: ti,
		Name:          ms.Name,
		ReturnType:    returnType,
		Parameters:    params,
		Modifiers:     mods,
		Visibility:    visibilityFromModifiers(f, ms.Modifiers),
	}
	ti.Methods = append(ti.Methods, method)
	ti.Methods = append(ti.Methods, defaultParameterOverloads(method, ms.Parameters)...)
}

func validateMethodModifiers(f *sourcefile.SourceFile, mods []syntax.ModifierToken) (typeinfo.MethodModifier, bool) {
	var out typeinfo.MethodModifier
	var override, sealedM, abstractM, virtualM, staticM bool
	for _, m := range mods {
		switch m.Kind {
		case token.OverrideKeyword:
			if override {
				f.Sink().Report(diagnostics.ErrMultipleModifiers, toDiagSpan(m.Span), "override")
				return 0, false
			}
			override = true
			out |= typeinfo.MethodOverride
		case token.SealedKeyword:
			if sealedM {
				f.Sink().Report(diagnostics.ErrMultipleModifiers, toDiagSpan(m.Span), "sealed")
				return 0, false
			}
			sealedM = true
			out |= typeinfo.MethodSealed
		case token.AbstractKeyword:
			if abstractM {
				f.Sink().Report(diagnostics.ErrMultipleModifiers, toDiagSpan(m.Span), "abstract")
				return 0, false
			}
			abstractM = true
			out |= typeinfo.MethodAbstract
		case token.VirtualKeyword:
			if virtualM {
				f.Sink().Report(diagnostics.ErrMultipleModifiers, toDiagSpan(m.Span), "virtual")
				return 0, false
			}
			virtualM = true
			out |= typeinfo.MethodVirtual
		case token.StaticKeyword:
			if staticM {
				f.Sink().Report(diagnostics.ErrMultipleModifiers, toDiagSpan(m.Span), "static")
				return 0, false
			}
			staticM = true
			out |= typeinfo.MethodStatic
		case token.ReadOnlyKeyword, token.ConstKeyword:
			f.Sink().Report(diagnostics.ErrInvalidModifierForMethodDeclaration, toDiagSpan(m.Span), "")
			return 0, false
		}
	}
	if sealedM && abstractM {
		f.Sink().Report(diagnostics.ErrSealedOrAbstract, diagnostics.Span{}, "")
		return 0, false
	}
	if override && sealedM {
		f.Sink().Report(diagnostics.ErrOverrideOrSealed, diagnostics.Span{}, "")
		return 0, false
	}
	return out, true
}

// defaultParameterOverloads synthesizes the contiguous run of MethodInfo
// slots the Glossary's "default-parameter overload" describes: a method
// declared with n parameters whose trailing k have defaults produces k+1
// total MethodInfo entries with parameter counts n, n-1, ..., n-k (spec
// §4.7, §8 example with k=2). Slot 0 (method itself) already has
// isDefaultParameterOverload = false; this returns the remaining k slots,
// each exposing one fewer trailing parameter than the last.
func defaultParameterOverloads(method *typeinfo.MethodInfo, originalParams []*syntax.ParameterSyntax) []*typeinfo.MethodInfo {
	firstOptional := -1
	for i, p := range originalParams {
		if p.HasDefault {
			firstOptional = i
			break
		}
	}
	if firstOptional < 0 || firstOptional >= len(method.Parameters) {
		return nil
	}

	var overloads []*typeinfo.MethodInfo
	for count := len(method.Parameters) - 1; count >= firstOptional; count-- {
		params := append([]*typeinfo.ParameterInfo(nil), method.Parameters[:count]...)
		overloads = append(overloads, &typeinfo.MethodInfo{
			DeclaringType:              method.DeclaringType,
			Name:                       method.Name,
			ReturnType:                 method.ReturnType,
			Parameters:                 params,
			Modifiers:                  method.Modifiers,
			Visibility:                 method.Visibility,
			IsDefaultParameterOverload: true,
		})
	}
	return overloads
}

func (j *MemberJob) resolveProperty(f *sourcefile.SourceFile, r *resolver.Resolver, ti *typeinfo.TypeInfo, ps *syntax.PropertySyntax) {
	resolved, ok := r.TryResolveType(ps.Type)
	if !ok {
		return
	}
	prop := &typeinfo.PropertyInfo{
		DeclaringType: ti,
		Name:          ps.Name,
		Type:          resolved,
		Visibility:    visibilityFromModifiers(f, ps.Modifiers),
		HasGetter:     ps.HasGetter,
		HasSetter:     ps.HasSetter,
	}
	ti.Properties = append(ti.Properties, prop)
}

func (j *MemberJob) resolveIndexer(f *sourcefile.SourceFile, r *resolver.Resolver, ti *typeinfo.TypeInfo, is *syntax.IndexerSyntax) {
	resolved, ok := r.TryResolveType(is.Type)
	if !ok {
		return
	}
	params, ok := j.resolveParameters(f, r, is.Parameters, false)
	if !ok {
		return
	}
	idx := &typeinfo.IndexerInfo{
		DeclaringType: ti,
		Type:          resolved,
		Parameters:    params,
		Visibility:    visibilityFromModifiers(f, is.Modifiers),
		HasGetter:     is.HasGetter,
		HasSetter:     is.HasSetter,
	}
	ti.Indexers = append(ti.Indexers, idx)
}

func (j *MemberJob) resolveConstructor(f *sourcefile.SourceFile, r *resolver.Resolver, ti *typeinfo.TypeInfo, cs *syntax.ConstructorSyntax) {
	params, ok := j.resolveParameters(f, r, cs.Parameters, false)
	if !ok {
		return
	}
	ctor := &typeinfo.ConstructorInfo{
		DeclaringType: ti,
		Parameters:    params,
		Visibility:    visibilityFromModifiers(f, cs.Modifiers),
	}
	ti.Constructors = append(ti.Constructors, ctor)
}

// resolveParameters resolves and validates a parameter list: each name
// unique, ref/out/readonly mutually exclusive, and (when enforceOrder is
// set, as it is for methods, whose trailing defaults become
// defaultParameterOverload slots per spec §4.7) every required parameter
// preceding every optional one.
func (j *MemberJob) resolveParameters(f *sourcefile.SourceFile, r *resolver.Resolver, params []*syntax.ParameterSyntax, enforceOrder bool) ([]*typeinfo.ParameterInfo, bool) {
	out := make([]*typeinfo.ParameterInfo, 0, len(params))
	seen := make(map[string]bool, len(params))
	seenOptional := false

	for _, p := range params {
		if seen[p.Name] {
			f.Sink().Report(diagnostics.ErrDuplicateParameterName, toDiagSpan(p.Span), p.Name)
			return nil, false
		}
		seen[p.Name] = true

		if enforceOrder {
			if seenOptional && !p.HasDefault {
				f.Sink().Report(diagnostics.ErrOptionalParameterOrder, toDiagSpan(p.Span), p.Name)
				return nil, false
			}
			if p.HasDefault {
				seenOptional = true
			}
		}

		resolved, ok := r.TryResolveType(p.Type)
		if !ok {
			return nil, false
		}

		mods, valid := validateParameterModifiers(f, p.Modifiers)
		if !valid {
			return nil, false
		}

		out = append(out, &typeinfo.ParameterInfo{
			Type:      resolved,
			Name:      p.Name,
			Modifiers: mods,
		})
	}
	return out, true
}

func validateParameterModifiers(f *sourcefile.SourceFile, mods []syntax.ModifierToken) (typeinfo.ParameterModifier, bool) {
	var out typeinfo.ParameterModifier
	var ref, out_, readonly bool
	for _, m := range mods {
		switch m.Kind {
		case token.RefKeyword:
			ref = true
			out |= typeinfo.ParamRef
		case token.OutKeyword:
			out_ = true
			out |= typeinfo.ParamOut
		case token.ReadOnlyKeyword:
			readonly = true
			out |= typeinfo.ParamReadonly
		case token.TempKeyword:
			out |= typeinfo.ParamTemp
		default:
			f.Sink().Report(diagnostics.ErrInvalidModifierForParameterDeclaration, toDiagSpan(m.Span), "")
			return 0, false
		}
	}
	if (ref && out_) || (ref && readonly) || (out_ && readonly) {
		f.Sink().Report(diagnostics.ErrRefOrOutOrReadonly, diagnostics.Span{}, "")
		return 0, false
	}
	return out, true
}
