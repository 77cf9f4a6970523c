package models

// SalonCard — контактная карточка салона из configs/salon.yaml,
// показывается по кнопке «Контакты».
type SalonCard struct {
	Name     string   `yaml:"name"`
	Address  string   `yaml:"address"`
	Phone    string   `yaml:"phone"`
	Hours    []string `yaml:"hours"`
	Telegram string   `yaml:"telegram"`
}
