package webutil

import (
	"log"
	"reflect"
	"strings"

	"github.com/go-playground/locales/ja"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ja_translations "github.com/go-playground/validator/v10/translations/ja"
)

// Validator はアプリケーション全体で共有されるバリデータインスタンスです。
var Validator *validator.Validate

// Trans はエラーメッセージを翻訳するためのトランスレータです。
var Trans ut.Translator

var fieldNameTranslations = map[string]string{
	"name":        "名前",
	"email":       "メールアドレス",
	"count":       "在庫数",
	"kind":        "種別",
	"checked":     "チェック状態",
	"slot":        "時間帯",
	"sleep_hours": "睡眠時間",
	"mood":        "気分",
	"energy":      "エネルギー",
}

func translatedField(fe validator.FieldError) string {
	if name, ok := fieldNameTranslations[fe.Field()]; ok {
		return name
	}
	return fe.Field()
}

func init() {
	Validator = validator.New()

	// JSONタグからフィールド名を取得するように設定
	Validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	japanese := ja.New()
	uni := ut.New(japanese, japanese)
	var found bool
	Trans, found = uni.GetTranslator("ja")
	if !found {
		log.Fatal("translator not found")
	}

	if err := ja_translations.RegisterDefaultTranslations(Validator, Trans); err != nil {
		log.Fatal(err)
	}

	// tag -> メッセージテンプレート ({0}=項目名, {1}=パラメータ)
	overrides := map[string]string{
		"required": "{0}は必須項目です。",
		"email":    "{0}は有効なメールアドレス形式ではありません。",
		"min":      "{0}は{1}文字以上で入力してください。",
		"max":      "{0}は{1}文字以下で入力してください。",
		"gte":      "{0}は{1}以上で入力してください。",
		"lte":      "{0}は{1}以下で入力してください。",
		"oneof":    "{0}は[{1}]のいずれかを指定してください。",
	}
	for tag, msg := range overrides {
		err := Validator.RegisterTranslation(tag, Trans, func(ut ut.Translator) error {
			return ut.Add(tag, msg, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, translatedField(fe), fe.Param())
			return t
		})
		if err != nil {
			log.Fatal(err)
		}
	}
}
