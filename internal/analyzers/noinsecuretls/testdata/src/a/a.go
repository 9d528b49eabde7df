package a

import "crypto/tls"

const skip = true

func literal() *tls.Config {
	return &tls.Config{InsecureSkipVerify: true} // want "TLS verification disabled unconditionally"
}

func namedConst() tls.Config {
	return tls.Config{InsecureSkipVerify: skip} // want "TLS verification disabled unconditionally"
}

func assigned() *tls.Config {
	cfg := &tls.Config{}
	cfg.InsecureSkipVerify = true // want "TLS verification disabled unconditionally"
	return cfg
}

func fromFlag(insecure bool) *tls.Config {
	return &tls.Config{InsecureSkipVerify: insecure}
}

func explicitFalse() *tls.Config {
	cfg := &tls.Config{InsecureSkipVerify: false}
	cfg.InsecureSkipVerify = false
	return cfg
}
