package enums

// MenuType groups a store menu by meal slot.
type MenuType string

const (
	MenuTypeBreakfast MenuType = "BREAKFAST"
	MenuTypeLunch     MenuType = "LUNCH"
	MenuTypeDinner    MenuType = "DINNER"
)

func (m MenuType) Valid() bool {
	switch m {
	case MenuTypeBreakfast, MenuTypeLunch, MenuTypeDinner:
		return true
	default:
		return false
	}
}
