package utils

import (
	"crypto/rand"
	"math/big"
)

// 通行码使用的字符集，去掉了易混淆的0/O/1/I
const passCodeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// RandomDigits 生成指定位数的随机数字串，首位不为0
// 用于通行证永久ID（4位）和OTP验证码（6位）
func RandomDigits(n int) string {
	if n <= 0 {
		return ""
	}

	digits := make([]byte, n)
	for i := 0; i < n; i++ {
		max := big.NewInt(10)
		if i == 0 {
			max = big.NewInt(9)
		}
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("generate random digits failed")
		}
		if i == 0 {
			digits[i] = byte('1' + v.Int64())
		} else {
			digits[i] = byte('0' + v.Int64())
		}
	}

	return string(digits)
}

// RandomPassCode 生成指定长度的快递通行码
func RandomPassCode(n int) string {
	code := make([]byte, n)
	for i := 0; i < n; i++ {
		v, err := rand.Int(rand.Reader, big.NewInt(int64(len(passCodeAlphabet))))
		if err != nil {
			panic("generate random pass code failed")
		}
		code[i] = passCodeAlphabet[v.Int64()]
	}

	return string(code)
}
