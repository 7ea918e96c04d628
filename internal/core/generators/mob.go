package generators

import (
	"fmt"
	"path"
	"strings"

	"github.com/JonMunkholm/mobgen/internal/core"
)

func init() {
	registerMobs()
}

// Mob column names, also the keys of core.Values.
const (
	colID        = "ID"
	colName      = "Name"
	colLevel     = "Level"
	colEntity    = "Entity"
	colMaxHP     = "MaxHP"
	colAttack    = "Attack"
	colDefense   = "Defense"
	colSpeed     = "Speed"
	colLuck      = "Luck"
	colCategory1 = "Category1"
	colCategory2 = "Category2"
	colCategory3 = "Category3"
	colNameColor = "NameColor"
)

// DefaultEntity is the base entity of mobs whose row leaves it empty.
const DefaultEntity = "minecraft:zombie"

// MobFieldSpecs are the columns read from the creature sheet.
var MobFieldSpecs = []core.FieldSpec{
	{Name: colID, Required: true},
	{Name: colName, Aliases: []string{"NameJP", "DisplayName"}},
	{Name: colLevel, Aliases: []string{"Lv", "推定lev"}, Type: core.FieldInt, Default: "1"},
	{Name: colEntity, Aliases: []string{"BaseEntity", "EntityID"}, Default: DefaultEntity},
	{Name: colMaxHP, Aliases: []string{"HP"}, Type: core.FieldInt, Default: "0"},
	{Name: colAttack, Aliases: []string{"ATK", "STR"}, Type: core.FieldInt, Default: "0"},
	{Name: colDefense, Aliases: []string{"DEF"}, Type: core.FieldInt, Default: "0"},
	{Name: colSpeed, Aliases: []string{"SPD", "AGI"}, Type: core.FieldInt, Default: "0"},
	{Name: colLuck, Type: core.FieldInt, Default: "0"},
	{Name: colCategory1, Aliases: []string{"Cat1", "Area", "エリア"}, Default: "Global"},
	{Name: colCategory2, Aliases: []string{"Cat2", "Group", "グループ"}, Default: "Ground"},
	{Name: colCategory3, Aliases: []string{"Cat3", "AI"}, Default: "Normal"},
	{Name: colNameColor, Aliases: []string{"Color"}, Default: "white"},
}

func registerMobs() {
	core.Register(core.Definition{
		Info: core.GeneratorInfo{
			Key:   "mob",
			Label: "Mobs",
			Sheet: "mob",
		},
		FieldSpecs: MobFieldSpecs,
		Build:      buildMob,
	})
}

// MobRecord is one creature row with defaults applied.
type MobRecord struct {
	ID         string
	Name       string
	Level      int
	BaseEntity string
	MaxHP      int
	Attack     int
	Defense    int
	Speed      int
	Luck       int
	Category1  string
	Category2  string
	Category3  string
	NameColor  string
}

// NewMobRecord builds a record from resolved values. Empty values take the
// column default and Name falls back to the id.
func NewMobRecord(values core.Values) MobRecord {
	v := withDefaults(values, MobFieldSpecs)
	m := MobRecord{
		ID:         v.String(colID),
		Name:       v.String(colName),
		Level:      v.Int(colLevel),
		BaseEntity: v.String(colEntity),
		MaxHP:      v.Int(colMaxHP),
		Attack:     v.Int(colAttack),
		Defense:    v.Int(colDefense),
		Speed:      v.Int(colSpeed),
		Luck:       v.Int(colLuck),
		Category1:  v.String(colCategory1),
		Category2:  v.String(colCategory2),
		Category3:  v.String(colCategory3),
		NameColor:  v.String(colNameColor),
	}
	if m.Name == "" {
		m.Name = m.ID
	}
	return m
}

// TagList returns the entity tags in their fixed order.
func (m MobRecord) TagList() []string {
	return []string{
		"MOB",
		"mob." + m.ID,
		"mob.new",
		m.Category1,
		m.Category2,
		m.Category3,
		capitalize(m.ID),
	}
}

// EntityID returns the namespaced base entity.
func (m MobRecord) EntityID() string {
	return namespaced(m.BaseEntity)
}

// SpawnEggID returns the spawn egg item for the base entity.
func (m MobRecord) SpawnEggID() string {
	return strings.TrimPrefix(m.BaseEntity, "minecraft:") + "_spawn_egg"
}

// PathSegments returns the lower-cased category directories.
func (m MobRecord) PathSegments() []string {
	return []string{lower(m.Category1), lower(m.Category2), lower(m.Category3)}
}

// BankFunction returns the function reference of the bank file.
func (m MobRecord) BankFunction() string {
	return "bank:" + m.bankName()
}

// BankPath returns the bank file path relative to the datapack directory.
func (m MobRecord) BankPath() string {
	return "data/bank/function/" + m.bankName() + ".mcfunction"
}

// SpawnMapPath returns the spawn_map file path relative to the datapack directory.
func (m MobRecord) SpawnMapPath() string {
	return "data/mob/function/spawn_map/" + m.ID + ".mcfunction"
}

// SpawnPath returns the spawn wrapper path relative to the datapack directory.
func (m MobRecord) SpawnPath() string {
	return "data/mob/function/spawn/" + m.ID + ".mcfunction"
}

func (m MobRecord) bankName() string {
	return path.Join(append(append([]string{"mob"}, m.PathSegments()...), m.ID)...)
}

// customName renders the CustomName text component list.
func (m MobRecord) customName() string {
	return fmt.Sprintf(`[{"text":"%s","color":"%s"},{"text":" Lv%d","color":"gray"}]`,
		jsonText(m.Name), jsonText(m.NameColor), m.Level)
}

type mobView struct {
	ID           string
	Name         string
	NameJSON     string
	BankFunction string
	SpawnEggID   string
	EntityID     string
	Tags         string
	CustomName   string
	Level        int
	MaxHP        int
	Attack       int
	Defense      int
	Speed        int
	Luck         int
}

func (m MobRecord) view() mobView {
	return mobView{
		ID:           m.ID,
		Name:         m.Name,
		NameJSON:     jsonText(m.Name),
		BankFunction: m.BankFunction(),
		SpawnEggID:   m.SpawnEggID(),
		EntityID:     m.EntityID(),
		Tags:         strings.Join(m.TagList(), ","),
		CustomName:   m.customName(),
		Level:        m.Level,
		MaxHP:        m.MaxHP,
		Attack:       m.Attack,
		Defense:      m.Defense,
		Speed:        m.Speed,
		Luck:         m.Luck,
	}
}

// RenderBank renders the bank file of m.
func RenderBank(m MobRecord) (string, error) {
	return render("mob_bank.mcfunction.tmpl", m.view())
}

// RenderSpawnMap renders the file that loads the bank and summons the mob.
func RenderSpawnMap(m MobRecord) (string, error) {
	return render("mob_spawn_map.mcfunction.tmpl", m.view())
}

// RenderSpawn renders the /function mob:spawn/<id> wrapper.
func RenderSpawn(m MobRecord) (string, error) {
	return render("mob_spawn.mcfunction.tmpl", m.view())
}

func buildMob(row core.Row, opts core.Options) (core.Entry, error) {
	m := NewMobRecord(row.Values)
	if !validID(m.ID) {
		return core.Entry{}, fmt.Errorf("invalid id %q", m.ID)
	}
	for _, seg := range m.PathSegments() {
		if !validID(seg) {
			return core.Entry{}, fmt.Errorf("invalid category %q", seg)
		}
	}

	bank, err := RenderBank(m)
	if err != nil {
		return core.Entry{}, err
	}
	entry := core.Entry{
		ID:    m.ID,
		Name:  m.Name,
		Files: []core.File{{Path: m.BankPath(), Content: bank}},
	}

	if !opts.SpawnFunctions {
		return entry, nil
	}

	spawnMap, err := RenderSpawnMap(m)
	if err != nil {
		return core.Entry{}, err
	}
	spawn, err := RenderSpawn(m)
	if err != nil {
		return core.Entry{}, err
	}
	entry.Files = append(entry.Files,
		core.File{Path: m.SpawnMapPath(), Content: spawnMap},
		core.File{Path: m.SpawnPath(), Content: spawn},
	)
	return entry, nil
}
