package generators

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/mobgen/internal/core"
)

func init() {
	registerItems()
}

// DefaultBaseItem is the vanilla item of items whose row leaves it empty.
const DefaultBaseItem = "minecraft:stone"

// itemStats are the RPG stat columns in output order.
var itemStats = []string{"ATK", "HP", "MP", "STR", "DEF", "INT", "AGI", "LUCK"}

// itemExtra are the vanilla attribute columns in output order.
var itemExtra = []string{"VanillaATK", "Range", "Speed"}

// ItemFieldSpecs are the columns read from the item sheet.
var ItemFieldSpecs = func() []core.FieldSpec {
	specs := []core.FieldSpec{
		{Name: "Name", Aliases: []string{"NameJP"}, Required: true},
		{Name: "NameUS"},
		{Name: "Lore"},
		{Name: "BaseItem", Default: DefaultBaseItem},
		{Name: "CustomModelData", Type: core.FieldInt, Default: "0"},
	}
	for _, col := range append(append([]string{}, itemExtra...), itemStats...) {
		specs = append(specs, core.FieldSpec{Name: col, Type: core.FieldFloat, Default: "0"})
	}
	return specs
}()

func registerItems() {
	core.Register(core.Definition{
		Info: core.GeneratorInfo{
			Key:   "item",
			Label: "Items",
			Sheet: "item",
		},
		FieldSpecs: ItemFieldSpecs,
		Build:      buildItem,
	})
}

// ItemRecord is one equipment row with defaults applied.
type ItemRecord struct {
	Seq             int
	Name            string
	NameUS          string
	Lore            []string
	BaseItem        string
	CustomModelData int
	Stats           map[string]float64
}

// NewItemRecord builds a record from resolved values. seq is the 1-based
// data row number used in the item id.
func NewItemRecord(seq int, values core.Values) ItemRecord {
	v := withDefaults(values, ItemFieldSpecs)
	it := ItemRecord{
		Seq:             seq,
		Name:            v.String("Name"),
		NameUS:          v.String("NameUS"),
		BaseItem:        namespaced(v.String("BaseItem")),
		CustomModelData: v.Int("CustomModelData"),
		Stats:           make(map[string]float64, len(itemStats)+len(itemExtra)),
	}
	if it.NameUS == "" {
		it.NameUS = fmt.Sprintf("item_%d", seq)
	}
	for _, line := range strings.Split(v.String("Lore"), "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			it.Lore = append(it.Lore, line)
		}
	}
	for _, col := range append(append([]string{}, itemStats...), itemExtra...) {
		it.Stats[col] = v.Float(col)
	}
	return it
}

// ID returns the bank id: the zero-padded row number and the snake-cased
// English name, e.g. "001.iron_sword".
func (it ItemRecord) ID() string {
	return fmt.Sprintf("%03d.%s", it.Seq, snakeCase(it.NameUS))
}

// BankFunction returns the function reference of the register file.
func (it ItemRecord) BankFunction() string {
	return "bank:item/" + it.ID() + "/register"
}

// Path returns the register file path relative to the datapack directory.
func (it ItemRecord) Path() string {
	return "data/bank/function/item/" + it.ID() + "/register.mcfunction"
}

type statLine struct {
	Key   string
	Value string
}

type itemView struct {
	ID              string
	Name            string
	NameJSON        string
	BankFunction    string
	BaseItem        string
	Lore            string
	CustomModelData int
	Stats           []statLine
	Extra           []statLine
}

func (it ItemRecord) view() itemView {
	lore := make([]string, len(it.Lore))
	for i, line := range it.Lore {
		lore[i] = fmt.Sprintf(`{"text":"%s","color":"gray"}`, jsonText(line))
	}

	lines := func(cols []string) []statLine {
		out := make([]statLine, len(cols))
		for i, col := range cols {
			out[i] = statLine{Key: col, Value: core.FormatFloat(it.Stats[col])}
		}
		return out
	}

	return itemView{
		ID:              it.ID(),
		Name:            it.Name,
		NameJSON:        jsonText(it.Name),
		BankFunction:    it.BankFunction(),
		BaseItem:        it.BaseItem,
		Lore:            strings.Join(lore, ","),
		CustomModelData: it.CustomModelData,
		Stats:           lines(itemStats),
		Extra:           lines(itemExtra),
	}
}

// RenderItem renders the register file of it.
func RenderItem(it ItemRecord) (string, error) {
	return render("item_register.mcfunction.tmpl", it.view())
}

func buildItem(row core.Row, _ core.Options) (core.Entry, error) {
	it := NewItemRecord(row.Seq, row.Values)
	id := it.ID()
	if !validID(id) || strings.HasSuffix(id, ".") {
		return core.Entry{}, fmt.Errorf("invalid item id %q", id)
	}

	content, err := RenderItem(it)
	if err != nil {
		return core.Entry{}, err
	}
	return core.Entry{
		ID:    id,
		Name:  it.Name,
		Files: []core.File{{Path: it.Path(), Content: content}},
	}, nil
}
