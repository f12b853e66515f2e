package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseFormula(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		want    Formula
		wantErr bool
	}{
		{
			name:    "murnac",
			formula: "C11H19NO8",
			want:    Formula{"C": 11, "H": 19, "N": 1, "O": 8},
		},
		{
			name:    "repeated element",
			formula: "CH3CH2OH",
			want:    Formula{"C": 2, "H": 6, "O": 1},
		},
		{
			name:    "two-letter symbol",
			formula: "NaCl",
			wantErr: true,
		},
		{
			name:    "sodium",
			formula: "Na2",
			want:    Formula{"Na": 2},
		},
		{
			name:    "empty",
			formula: "",
			want:    Formula{},
		},
		{
			name:    "lowercase start",
			formula: "h2o",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormula(tt.formula)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormula(%q) error = %v, wantErr %v", tt.formula, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseFormula(%q) = %v, want %v", tt.formula, got, tt.want)
			}
		})
	}
}

func TestParseFormulaUnknownElement(t *testing.T) {
	_, err := ParseFormula("C2Xx")
	var unknown *UnknownElementError
	if !errors.As(err, &unknown) {
		t.Fatalf("ParseFormula() error = %v, want UnknownElementError", err)
	}
	if unknown.Symbol != "Xx" || unknown.Position != 2 {
		t.Errorf("UnknownElementError = %+v, want symbol Xx at 2", unknown)
	}
}

func TestFormulaString(t *testing.T) {
	tests := []struct {
		formula Formula
		want    string
	}{
		{Formula{"O": 8, "N": 1, "H": 19, "C": 11}, "C11H19NO8"},
		{Formula{"H": 2, "O": 1}, "H2O"},
		{Formula{"Na": 1, "O": 1, "H": 1}, "HNaO"},
		{Formula{"C": 1, "S": 0}, "C"},
		{Formula{}, ""},
	}
	for _, tt := range tests {
		if got := tt.formula.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestFormulaSub(t *testing.T) {
	got, err := MustParseFormula("C3H7NO2").Sub(Water)
	if err != nil {
		t.Fatalf("Sub() error = %v", err)
	}
	if got.String() != "C3H5NO" {
		t.Errorf("Sub() = %s, want C3H5NO", got)
	}

	_, err = Hydrogen.Sub(Water)
	var negative *NegativeCountError
	if !errors.As(err, &negative) {
		t.Fatalf("Sub() error = %v, want NegativeCountError", err)
	}
	if negative.Element != "H" || negative.Have != 1 || negative.Remove != 2 {
		t.Errorf("NegativeCountError = %+v", negative)
	}
}

func TestFormulaMass(t *testing.T) {
	tests := []struct {
		name    string
		formula Formula
		want    string
	}{
		{"water", Water, "18.0105646863"},
		{"glcnac", Sugars[GlcNAc].Formula, "221.0899372193"},
		{"murnac", Sugars[MurNAc].Formula, "293.1110665919"},
		{"alanine", Residues['A'].Formula, "89.0476784741"},
		{"diaminopimelate", Residues['J'].Formula, "190.0953569482"},
		{"empty", Formula{}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.formula.Mass()
			if err != nil {
				t.Fatalf("Mass() error = %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Mass() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFormulaMassOverflow(t *testing.T) {
	_, err := Formula{"C": MaxAtomCount + 1}.Mass()
	var overflow *MassOverflowError
	if !errors.As(err, &overflow) {
		t.Fatalf("Mass() error = %v, want MassOverflowError", err)
	}
	if overflow.Element != "C" || overflow.Limit != MaxAtomCount {
		t.Errorf("MassOverflowError = %+v", overflow)
	}
}

func TestParseCountOverflow(t *testing.T) {
	tests := []struct {
		name  string
		parse func() error
	}{
		{"formula count", func() error { _, err := ParseFormula("H9223372036854775807"); return err }},
		{"formula count out of range", func() error { _, err := ParseFormula("H99999999999999999999"); return err }},
		{"formula sum", func() error { _, err := ParseFormula("C600000C600000"); return err }},
		{"delta count", func() error { _, err := ParseDelta("+H2000000"); return err }},
		{"delta sum", func() error { _, err := ParseDelta("-O600000-O600000"); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var overflow *MassOverflowError
			if err := tt.parse(); !errors.As(err, &overflow) {
				t.Errorf("error = %v, want MassOverflowError", err)
			}
		})
	}

	if _, err := ParseFormula("C1000000"); err != nil {
		t.Errorf("ParseFormula at the limit error = %v", err)
	}
}

func TestElementMass(t *testing.T) {
	if _, err := ElementMass("Zz"); err == nil {
		t.Error("ElementMass(Zz) expected error")
	}
	m, err := ElementMass("C")
	if err != nil || !m.Equal(decimal.NewFromInt(12)) {
		t.Errorf("ElementMass(C) = %s, %v", m, err)
	}
	if got := Elements(); got[0] != "C" || got[1] != "H" {
		t.Errorf("Elements() = %v, want C and H first", got)
	}
}

func TestParseDelta(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "-H2O", want: "-H2O"},
		{in: "+C2H2O", want: "+C2H2O"},
		{in: "+Na-H", want: "+Na-H"},
		{in: "-H+Na", want: "+Na-H"},
		{in: "+H2O-H2O", want: ""},
		{in: "+HN-O", want: "+HN-O"},
		{in: "H2O", wantErr: true},
		{in: "+", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDelta(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDelta(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && d.String() != tt.want {
				t.Errorf("ParseDelta(%q).String() = %q, want %q", tt.in, d.String(), tt.want)
			}
		})
	}
}

func TestDeltaMass(t *testing.T) {
	d, err := ParseDelta("+Na-H")
	if err != nil {
		t.Fatal(err)
	}
	m, err := d.Mass()
	if err != nil {
		t.Fatal(err)
	}
	if want := decimal.RequireFromString("21.9819442499"); !m.Equal(want) {
		t.Errorf("Mass() = %s, want %s", m, want)
	}
}

func TestConventions(t *testing.T) {
	for _, kind := range []BondKind{Glycosidic, Lactyl, Peptide, CrossLinkBond} {
		if got := Hydrolysis.Byproduct(kind).String(); got != "+H2O" {
			t.Errorf("Hydrolysis.Byproduct(%s) = %q, want +H2O", kind, got)
		}
		if !Direct.Byproduct(kind).IsZero() {
			t.Errorf("Direct.Byproduct(%s) = %q, want zero", kind, Direct.Byproduct(kind))
		}
		chem := BondChemistryOf(kind)
		if !chem.DonorLoss.Add(chem.AcceptorLoss).Equal(chem.Formation) {
			t.Errorf("%s: donor and acceptor losses do not sum to formation", kind)
		}
	}

	for _, name := range []string{"hydrolysis", "Direct"} {
		if _, err := ParseConvention(name); err != nil {
			t.Errorf("ParseConvention(%q) error = %v", name, err)
		}
	}
	if _, err := ParseConvention("ei"); err == nil {
		t.Error("ParseConvention(ei) expected error")
	}
}

func TestParseBondKind(t *testing.T) {
	for _, kind := range []BondKind{Glycosidic, Lactyl, Peptide, CrossLinkBond} {
		got, err := ParseBondKind(kind.String())
		if err != nil || got != kind {
			t.Errorf("ParseBondKind(%q) = %v, %v", kind.String(), got, err)
		}
	}
	if _, err := ParseBondKind("ionic"); err == nil {
		t.Error("ParseBondKind(ionic) expected error")
	}
}
