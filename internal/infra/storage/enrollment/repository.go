package enrollment

// Repository репозиторий для работы с заявками на программы
// и бронированиями смен
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}
