package entities

import (
	"github.com/ruslano69/cgm-backoffice/pkg/fieldmap"
	"github.com/ruslano69/cgm-backoffice/pkg/query"
)

// VENCIMENTO is NVARCHAR in Lar, unlike the other tables.
var larMap = fieldmap.MustNew(
	fieldmap.Field{FormKey: "Segmento", Column: "SEGMENTO"},
	fieldmap.Field{FormKey: "Nome_Ag", Column: "NM_AG"},
	fieldmap.Field{FormKey: "AG", Column: "AGENCIA"},
	fieldmap.Field{FormKey: "CC", Column: "CONTA"},
	fieldmap.Field{FormKey: "CNPJ", Column: "CNPJ"},
	fieldmap.Field{FormKey: "Cliente", Column: "CLIENTE"},
	fieldmap.Field{FormKey: "Tarifa", Column: "TARIFA"},
	fieldmap.Field{FormKey: "Data_Neg", Column: "DATA_NEG", Type: fieldmap.TypeDate},
	fieldmap.Field{FormKey: "Vlr_Tar_Ref", Column: "VALOR_MAJORADO", Type: fieldmap.TypeCurrency},
	fieldmap.Field{FormKey: "Vlr_Auto", Column: "VALOR_REQUERIDO", Type: fieldmap.TypeCurrency},
	fieldmap.Field{FormKey: "Vlr_Lar", Column: "VALOR_LAR", Type: fieldmap.TypeCurrency},
	fieldmap.Field{FormKey: "Autorização", Column: "AUTORIZAÇÃO"},
	fieldmap.Field{FormKey: "Observacao", Column: "OBSERVACAO", Type: fieldmap.TypeFreeText},
	fieldmap.Field{FormKey: "Status", Column: "STATUS"},
	fieldmap.Field{FormKey: "Prazo", Column: "PRAZO", Type: fieldmap.TypeInteger},
	fieldmap.Field{FormKey: "Vencimento", Column: "VENCIMENTO", Type: fieldmap.TypeFreeText},
	fieldmap.Field{FormKey: "Usuario", Column: "USUARIO"},
	fieldmap.Field{FormKey: "Atuacao", Column: "ATUACAO"},
	fieldmap.Field{FormKey: "QTDE", Column: "QTDE", Type: fieldmap.TypeInteger},
	fieldmap.Field{FormKey: "Motivo", Column: "MOTIVO"},
	fieldmap.Field{FormKey: "Status_Cliente", Column: "STATUS_CLIENTE"},
	fieldmap.Field{FormKey: "Prestamista", Column: "PRESTAMISTA"},
	fieldmap.Field{FormKey: "Prestamista_Politica", Column: "PRESTAMISTA_POLITICA"},
	fieldmap.Field{FormKey: "ROE", Column: "ROE"},
	fieldmap.Field{FormKey: "ROE_Carteira", Column: "ROE_CARTEIRA"},
)

// Lar - redução de risco (LAR). Rows imported without a negotiation date
// sort as if negotiated today.
var Lar = Entity{
	Name:       "lar",
	Title:      "LAR",
	Table:      "Lar",
	PrimaryKey: "Id",
	DateColumn: "DATA_NEG",
	Mapping:    larMap,

	RecentProjection: []query.Projection{
		text("USUARIO", "usuario"),
		dateOrNow("DATA_NEG", "data"),
		text("CLIENTE", "cliente"),
		text("SEGMENTO", "segmento"),
		text("CNPJ", "cnpj"),
	},
	RecentOrder: larOrder,
	SearchOrder: larOrder,

	Profiles: []Profile{
		{
			Name: ProfileSearch,
			Projection: []query.Projection{
				text("CLIENTE", "Cliente"),
				text("CNPJ", "CNPJ"),
				text("SEGMENTO", "Segmento"),
				text("AGENCIA", "AG"),
				{Column: "VALOR_MAJORADO", Alias: "Vlr_Tar_Ref"},
				{Column: "VALOR_REQUERIDO", Alias: "Vlr_Auto"},
				{Column: "VALOR_LAR", Alias: "Vlr_Lar"},
				text("VENCIMENTO", "Vencimento"),
			},
			Criteria: []Criterion{
				exact("seg", "SEGMENTO"),
				contains("cli", "CLIENTE"),
				contains("cnpj", "CNPJ"),
			},
		},
		{
			Name:       ProfileCadastro,
			Projection: fullProjection("Id", larMap),
			Criteria:   registerCriteria("AGENCIA", "CONTA", "CLIENTE", "TARIFA"),
		},
		{
			Name:       ProfileConsulta,
			Projection: fullProjection("Id", larMap),
			Criteria: append([]Criterion{
				contains("seg", "SEGMENTO"),
				contains("cli", "CLIENTE"),
				exact("cnpj", "CNPJ"),
			}, period("DATA_NEG")...),
		},
	},
}

var larOrder = []query.Order{{Column: "DATA_NEG", Desc: true, OrNow: true}}

func init() {
	register(Lar)
}
