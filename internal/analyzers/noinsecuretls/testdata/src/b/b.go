package b

type Config struct {
	InsecureSkipVerify bool
}

func other() Config {
	return Config{InsecureSkipVerify: true}
}
